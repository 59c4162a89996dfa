package render

import (
	"fmt"
	"strings"

	"github.com/mz/pipeforge/internal/profile"
	"github.com/mz/pipeforge/internal/resolve"
)

// DeployScript emits the ordered command sequence that provisions the
// resource graph and launches its processing jobs: provider session setup,
// provisioning apply, then one deployment command per service template, in
// the same topological order used by the provisioning config.
//
// Secrets are never embedded; the script references environment-supplied
// placeholders such as ${PROJECT_ID} and ${TEMPLATE_PATH}.
func DeployScript(g *resolve.Graph, prof profile.Profile) (Artifact, error) {
	ordered, err := topoSort(g)
	if err != nil {
		return Artifact{}, err
	}

	var b strings.Builder
	b.WriteString("#!/usr/bin/env bash\n")
	b.WriteString("# Generated deployment sequence. Review before executing.\n")
	b.WriteString("set -euo pipefail\n")
	b.WriteString("\n")
	b.WriteString("gcloud config set project \"${PROJECT_ID}\"\n")
	fmt.Fprintf(&b, "gcloud config set compute/region %s\n", prof.Region)
	b.WriteString("\n")
	b.WriteString("terraform init -input=false\n")

	apply := "terraform apply -input=false"
	if prof.Options.AutoApprove {
		apply += " -auto-approve"
	}
	b.WriteString(apply + "\n")

	for _, d := range ordered {
		if !d.Service {
			continue
		}
		input, ok := g.Resource(d.Input)
		if !ok {
			return Artifact{}, fmt.Errorf("service %s: input resource %s not in graph", d.ID, d.Input)
		}
		output, ok := g.Resource(d.Output)
		if !ok {
			return Artifact{}, fmt.Errorf("service %s: output resource %s not in graph", d.ID, d.Output)
		}

		b.WriteString("\n")
		fmt.Fprintf(&b, "gcloud dataflow jobs run %s \\\n", d.Name)
		fmt.Fprintf(&b, "  --gcs-location \"${TEMPLATE_PATH}/%s.json\" \\\n", d.Name)
		fmt.Fprintf(&b, "  --region %s \\\n", prof.Region)
		fmt.Fprintf(&b, "  --parameters input=%s,output=%s\n", input.Locator, output.Locator)
	}

	return Artifact{
		Kind:    KindDeploymentScript,
		Format:  "bash",
		Name:    "deploy.sh",
		Content: b.String(),
	}, nil
}
