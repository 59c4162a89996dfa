package pipeline

import "fmt"

// StructuralError reports a malformed chain shape: a missing source or sink,
// or a component whose role is not valid at its position.
type StructuralError struct {
	Reason string
	// Index is the offending component's position for "misplaced role"
	// failures, -1 otherwise.
	Index int
}

// Error implements the error interface.
func (e *StructuralError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("structural error: %s at index %d", e.Reason, e.Index)
	}
	return fmt.Sprintf("structural error: %s", e.Reason)
}

func structural(reason string) *StructuralError {
	return &StructuralError{Reason: reason, Index: -1}
}

func misplaced(index int) *StructuralError {
	return &StructuralError{Reason: "misplaced role", Index: index}
}
