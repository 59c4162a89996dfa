// Package app wires the application together: logger, declaration loader,
// connector registry and compiler. It owns the caller-side responsibilities
// the compiler core deliberately does not have, such as writing artifacts to
// disk.
package app
