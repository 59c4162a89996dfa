// Package compiler is the public entry point of the pipeline compiler. It
// sequences graph building, validation, resource resolution and artifact
// rendering, and aggregates the results.
//
// The stage order is the load-bearing design decision: a pipeline is proven
// structurally and semantically sound before any resource is resolved, and
// fully resolved before any artifact is rendered. A blocked stage aborts the
// whole run — partial artifact sets are never returned.
package compiler
