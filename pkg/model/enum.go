package model

type EnumValueInfo struct {
	Name     string
	Value    int64
	Metadata MetadataInfo
}

// EnumInfo is a reflected enum. Values keep declaration order and carry
// their declared integer value, not their position.
type EnumInfo struct {
	Type              *TypeInfo
	Metadata          MetadataInfo
	Values            []*EnumValueInfo
	GeneratedBodyLine *uint32
}

func (e *EnumInfo) String() string { return e.Type.QualifiedName() }

// Value returns the enumerator with the given name, or nil.
func (e *EnumInfo) Value(name string) *EnumValueInfo {
	for _, v := range e.Values {
		if v.Name == name {
			return v
		}
	}
	return nil
}
