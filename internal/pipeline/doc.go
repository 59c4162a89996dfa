// Package pipeline builds and represents the directed acyclic graph of a
// declared data pipeline.
//
// Build consumes the ordered component specs produced by the front-end and
// assembles a validated linear chain: source, zero or more transforms, sink.
// The graph representation itself is general — nodes plus directed edges with
// fan-out and fan-in — so branching pipelines can be introduced later without
// reshaping the model. Graphs assembled by other means than Build are
// re-checked by the validator before anything is generated from them.
//
// Node identifiers are deterministic (<role>-<kind>-<ordinal>), so identical
// input yields identical identifiers across runs.
package pipeline
