package registry

import (
	"errors"
	"fmt"

	"github.com/jbpagliuco/CppRefl/pkg/model"
)

var (
	ErrHashCollision      = errors.New("hash collision")
	ErrMergeConflict      = errors.New("merge conflict")
	ErrFileLocked         = errors.New("registry file unavailable")
	ErrIncompatibleFormat = errors.New("incompatible registry format")
)

// HashCollisionError reports two distinct names sharing a hash. Owner is
// the class whose fields or methods collided, empty for types and functions.
type HashCollisionError struct {
	Kind   string
	Owner  string
	First  string
	Second string
	Hash   uint32
}

func (e *HashCollisionError) Error() string {
	if e.Owner != "" {
		return fmt.Sprintf("%s hash collision in %s: %q and %q both hash to %#08x", e.Kind, e.Owner, e.First, e.Second, e.Hash)
	}
	return fmt.Sprintf("%s hash collision: %q and %q both hash to %#08x", e.Kind, e.First, e.Second, e.Hash)
}

func (e *HashCollisionError) Is(target error) bool { return target == ErrHashCollision }

// MergeConflictError reports one entity declared at two different places by
// the registries being merged.
type MergeConflictError struct {
	Kind   string
	Name   string
	First  model.SourceLocation
	Second model.SourceLocation
}

func (e *MergeConflictError) Error() string {
	return fmt.Sprintf("%s %s declared at %s and %s", e.Kind, e.Name, e.First.IDEDiagnostic(), e.Second.IDEDiagnostic())
}

func (e *MergeConflictError) Is(target error) bool { return target == ErrMergeConflict }
