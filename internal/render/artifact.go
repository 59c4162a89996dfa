package render

// Kind classifies a generated artifact.
type Kind string

const (
	KindProvisioningConfig Kind = "provisioning-config"
	KindServiceTemplate    Kind = "service-template"
	KindDeploymentScript   Kind = "deployment-script"
)

// Artifact is one generated text document. Artifacts are immutable and have
// no lifecycle beyond being returned to the caller; writing them anywhere is
// the caller's responsibility.
type Artifact struct {
	Kind   Kind
	Format string
	// Name is the suggested file name, e.g. "main.tf".
	Name    string
	Content string
}
