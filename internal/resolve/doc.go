// Package resolve walks a validated pipeline and derives the concrete set of
// cloud resources each node requires, plus the dependency edges between them.
//
// Resolution is a pure function of (pipeline, profile): identical inputs
// always yield a structurally identical resource graph. Attribute values come
// from interpolating a fixed placeholder set — ${project}, ${region},
// ${param.<name>}, ${node} — into the templates declared by each node's
// schema. Naming collisions between nodes are a hard error, never a silent
// rename.
package resolve
