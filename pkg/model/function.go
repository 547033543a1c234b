package model

// FunctionInfo is a reflected free function. Its qualified and flattened
// names come from the embedded Identity.
type FunctionInfo struct {
	Identity
	ReturnType    TypeInstanceInfo
	ArgumentTypes []TypeInstanceInfo
	Metadata      MetadataInfo
}

func (f *FunctionInfo) Signature() string {
	return signature(f.ReturnType, f.Name, f.ArgumentTypes)
}
