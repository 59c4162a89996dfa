package render

import (
	"fmt"
	"strings"
)

// CyclicDependencyError reports a resource graph that is not acyclic. The
// resolver guarantees acyclic output, so hitting this is an
// internal-consistency fault, not a user input error.
type CyclicDependencyError struct {
	// Remaining lists the resource IDs involved in or downstream of the cycle.
	Remaining []string
}

// Error implements the error interface.
func (e *CyclicDependencyError) Error() string {
	return fmt.Sprintf("resource graph contains a dependency cycle among: %s", strings.Join(e.Remaining, ", "))
}

// DanglingReferenceError reports a descriptor whose reference or dependency
// names a resource absent from the graph. Like CyclicDependencyError this is
// an internal-consistency fault; the resolver never emits dangling edges.
type DanglingReferenceError struct {
	SourceID string
	TargetID string
}

// Error implements the error interface.
func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("resource %s references %s, which is not in the graph", e.SourceID, e.TargetID)
}
