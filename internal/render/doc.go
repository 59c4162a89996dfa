// Package render turns a resolved resource graph into textual infrastructure
// artifacts: a Terraform-syntax provisioning config, per-job service
// templates, and a deployment script.
//
// Every generator is a pure function of (graph, profile). Nothing here
// performs network calls or touches external state; "deployment" means
// producing scripts a human or CI step will execute later. Output ordering is
// deterministic: resources are emitted in topological order with ties broken
// by node ordinal, then resource type, then name.
package render
