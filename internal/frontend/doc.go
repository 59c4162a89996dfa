// Package frontend turns user-facing pipeline declarations into the ordered
// component specs the compiler consumes.
//
// Two front doors are provided. The Loader parses declarative HCL files:
//
//	source "pubsub" {
//	  topic = "user-events"
//	}
//
//	transform "process_messages" {}
//
//	sink "bigquery" {
//	  dataset = "analytics"
//	  table   = "processed_users"
//	}
//
// The Chain builder is the programmatic equivalent, an explicit append-style
// replacement for operator chaining. Both produce plain component specs; the
// compiler never sees source text.
package frontend
