// Package registry provides the central lookup table of the compiler.
//
// The Registry maps a (role, kind) pair — e.g. (source, "pubsub") — to a
// declarative Schema describing the parameters that connector
// accepts and the cloud resources it implies. It is populated once at process
// start from a static per-provider table and is read-only afterwards, which
// makes unsynchronized concurrent lookups safe.
//
// An unknown (role, kind) pair fails with a NotFoundError naming the pair.
// That is deliberate: connectors that are planned but not yet implemented are
// rejected cleanly instead of silently generating wrong infrastructure.
package registry
