// Package validate checks a pipeline graph against structural and semantic
// rules before any artifact is generated from it.
//
// Validation never fails fast: every check appends findings to a report so a
// caller can inspect all issues at once. Findings are tagged error or
// warning; only error-level findings block generation.
package validate
