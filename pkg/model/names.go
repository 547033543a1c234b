package model

import "strings"

// NamespaceSeparator separates namespace components and nested class names.
const NamespaceSeparator = "::"

// Identity is the (name, namespace) pair shared by every namespaced entity.
//
// Name may itself contain nested-class syntax ("Outer::Inner"); only
// Namespace is ever split into namespace components.
type Identity struct {
	Name      string `json:"name" yaml:"name" msgpack:"name"`
	Namespace string `json:"namespace" yaml:"namespace" msgpack:"namespace"`
}

// Namespaces returns every nested namespace, outermost first. Empty when global.
func (id Identity) Namespaces() []string {
	if id.IsInGlobalNamespace() {
		return []string{}
	}
	return strings.Split(id.Namespace, NamespaceSeparator)
}

// IsInGlobalNamespace reports whether the entity lives in the global namespace.
func (id Identity) IsInGlobalNamespace() bool {
	return id.Namespace == ""
}

// QualifiedName returns namespace::name, or name when global.
func (id Identity) QualifiedName() string {
	return QualifiedName(id.Name, id.Namespace)
}

// GloballyQualifiedName returns the qualified name with a leading "::".
func (id Identity) GloballyQualifiedName() string {
	return NamespaceSeparator + id.QualifiedName()
}

// FlattenedName returns the qualified name with every "::" replaced by "_".
func (id Identity) FlattenedName() string {
	return strings.ReplaceAll(id.QualifiedName(), NamespaceSeparator, "_")
}

func (id Identity) String() string {
	return id.QualifiedName()
}

// QualifiedName joins a name with its namespace.
func QualifiedName(name, namespace string) string {
	if namespace == "" {
		return name
	}
	return namespace + NamespaceSeparator + name
}

// SplitQualifiedName splits a fully qualified spelling into (name, namespace)
// given the namespace the declaration is known to live in. When the spelling
// does not start with that namespace the whole spelling becomes the name.
func SplitQualifiedName(qualified, namespace string) (name, ns string) {
	if namespace == "" {
		return qualified, ""
	}
	prefix := namespace + NamespaceSeparator
	if strings.HasPrefix(qualified, prefix) {
		return qualified[len(prefix):], namespace
	}
	return qualified, ""
}
