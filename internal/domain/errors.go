package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors - use with errors.Is()
var (
	// ErrNotFound indicates the addressed document or folder does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates invalid input: bad name, unsupported media
	// type, oversized payload, or a reference to a missing parent folder.
	// Validation errors are rejected before any state is mutated.
	ErrValidation = errors.New("validation failed")

	// ErrStructural indicates an operation that would break the folder
	// hierarchy: self-parenting, a cycle, or deleting a non-empty folder.
	ErrStructural = errors.New("structural constraint violated")
)

// Structural rule identifiers carried by StructuralError.
const (
	RuleSelfParent     = "self_parent"
	RuleCyclicParent   = "cyclic_parent"
	RuleFolderNotEmpty = "folder_not_empty"
)

// StructuralError is a hierarchy constraint violation, tagged with the
// rule that was broken. The store is left unchanged when one is returned.
type StructuralError struct {
	Rule    string // one of the Rule* constants
	Message string
}

func (e *StructuralError) Error() string {
	return e.Message
}

// Is allows errors.Is() to match against ErrStructural
func (e *StructuralError) Is(target error) bool {
	return target == ErrStructural
}

// SelfParent builds the rejection for setting a folder as its own parent.
func SelfParent(folderID string) error {
	return &StructuralError{
		Rule:    RuleSelfParent,
		Message: fmt.Sprintf("folder %s cannot be its own parent", folderID),
	}
}

// CyclicParent builds the rejection for a move that would create a cycle.
func CyclicParent(folderID string) error {
	return &StructuralError{
		Rule:    RuleCyclicParent,
		Message: fmt.Sprintf("moving folder %s under its own descendant would create a cycle", folderID),
	}
}

// FolderNotEmpty builds the rejection for deleting a referenced folder.
func FolderNotEmpty(folderID string) error {
	return &StructuralError{
		Rule:    RuleFolderNotEmpty,
		Message: fmt.Sprintf("folder %s still contains folders or documents", folderID),
	}
}
