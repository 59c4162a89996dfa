package validate

import "fmt"

// Severity classifies a finding. Errors block generation, warnings do not.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Check names the rule that produced a finding.
type Check string

const (
	CheckSchema       Check = "schema-conformance"
	CheckAdjacency    Check = "role-adjacency"
	CheckProvider     Check = "provider-consistency"
	CheckReachability Check = "dependency-reachability"
	CheckPermissions  Check = "permission-heuristics"
)

// Finding is one validation result attributed to a node or to the pipeline
// as a whole.
type Finding struct {
	Severity Severity
	Check    Check
	// NodeID is empty for pipeline-level findings.
	NodeID string
	// Index is the node's chain position, -1 for pipeline-level findings.
	Index   int
	Message string
}

// String renders the finding for logs and CLI output.
func (f Finding) String() string {
	if f.NodeID == "" {
		return fmt.Sprintf("%s [%s]: %s", f.Severity, f.Check, f.Message)
	}
	return fmt.Sprintf("%s [%s] %s: %s", f.Severity, f.Check, f.NodeID, f.Message)
}

// Report collects all findings of one validation run.
type Report struct {
	Findings []Finding
}

// HasErrors reports whether any finding is error-level.
func (r *Report) HasErrors() bool {
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Errors returns the error-level findings.
func (r *Report) Errors() []Finding {
	return r.filter(SeverityError)
}

// Warnings returns the warning-level findings.
func (r *Report) Warnings() []Finding {
	return r.filter(SeverityWarning)
}

func (r *Report) filter(sev Severity) []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Severity == sev {
			out = append(out, f)
		}
	}
	return out
}

func (r *Report) addError(check Check, nodeID string, index int, format string, args ...any) {
	r.Findings = append(r.Findings, Finding{
		Severity: SeverityError,
		Check:    check,
		NodeID:   nodeID,
		Index:    index,
		Message:  fmt.Sprintf(format, args...),
	})
}

func (r *Report) addWarning(check Check, nodeID string, index int, format string, args ...any) {
	r.Findings = append(r.Findings, Finding{
		Severity: SeverityWarning,
		Check:    check,
		NodeID:   nodeID,
		Index:    index,
		Message:  fmt.Sprintf(format, args...),
	})
}
