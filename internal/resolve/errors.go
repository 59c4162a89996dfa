package resolve

import "fmt"

// DuplicateResourceError reports two distinct nodes producing a resource with
// the same type and name.
type DuplicateResourceError struct {
	ID         string
	FirstNode  string
	SecondNode string
}

// Error implements the error interface.
func (e *DuplicateResourceError) Error() string {
	return fmt.Sprintf("duplicate resource %s produced by nodes %s and %s", e.ID, e.FirstNode, e.SecondNode)
}
