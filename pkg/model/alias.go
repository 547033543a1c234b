package model

// AliasInfo is a reflected type alias.
type AliasInfo struct {
	// Type is the alias itself.
	Type *TypeInfo
	// AliasType is the canonical type being aliased.
	AliasType *TypeInfo
	// AliasClass and AliasEnum name the class or enum the alias resolved to
	// when it was reflected; empty when unresolved at that time.
	AliasClass string
	AliasEnum  string
	Metadata   MetadataInfo
}

func (a *AliasInfo) String() string { return a.Type.QualifiedName() }

// GetUnderlyingClass follows alias-of-alias links through r until it reaches
// a class. It returns nil when the chain ends elsewhere or loops.
func (a *AliasInfo) GetUnderlyingClass(r Lookup) *ClassInfo {
	var found *ClassInfo
	a.walk(r, func(cur *AliasInfo) bool {
		if cur.AliasClass != "" {
			found = r.GetClass(cur.AliasClass)
		}
		if found == nil && cur.AliasType != nil && cur.AliasType.IsClass() {
			found = r.GetClass(cur.AliasType.QualifiedName())
		}
		return found != nil
	})
	return found
}

// GetUnderlyingEnum is GetUnderlyingClass for enums.
func (a *AliasInfo) GetUnderlyingEnum(r Lookup) *EnumInfo {
	var found *EnumInfo
	a.walk(r, func(cur *AliasInfo) bool {
		if cur.AliasEnum != "" {
			found = r.GetEnum(cur.AliasEnum)
		}
		if found == nil && cur.AliasType != nil && cur.AliasType.IsEnum() {
			found = r.GetEnum(cur.AliasType.QualifiedName())
		}
		return found != nil
	})
	return found
}

func (a *AliasInfo) walk(r Lookup, visit func(*AliasInfo) bool) {
	seen := map[string]bool{}
	for cur := a; cur != nil; {
		name := cur.Type.QualifiedName()
		if seen[name] {
			return
		}
		seen[name] = true
		if visit(cur) || cur.AliasType == nil {
			return
		}
		cur = r.GetAlias(cur.AliasType.QualifiedName())
	}
}
