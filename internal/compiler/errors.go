package compiler

import (
	"fmt"

	"github.com/mz/pipeforge/internal/validate"
)

// Stage identifies the compilation stage a failure is attributed to.
type Stage string

const (
	StageBuild    Stage = "build"
	StageValidate Stage = "validate"
	StageResolve  Stage = "resolve"
	StageRender   Stage = "render"
)

// CompilationError is the umbrella failure returned by Generate when any
// blocking stage fails. It wraps the underlying cause; for validation
// failures the full report is attached so a caller can inspect every finding
// at once.
type CompilationError struct {
	Stage  Stage
	Err    error
	Report *validate.Report
}

// Error implements the error interface.
func (e *CompilationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("compilation failed at stage %s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("compilation failed at stage %s", e.Stage)
}

// Unwrap exposes the underlying cause for errors.As / errors.Is.
func (e *CompilationError) Unwrap() error {
	return e.Err
}
