package render

import (
	"encoding/json"
	"fmt"

	"github.com/mz/pipeforge/internal/profile"
	"github.com/mz/pipeforge/internal/resolve"
)

// serviceTemplate is the JSON document handed to the managed job launcher.
type serviceTemplate struct {
	Name        string            `json:"name"`
	Environment serviceEnv        `json:"environment"`
	Parameters  map[string]string `json:"parameters"`
}

type serviceEnv struct {
	Project             string `json:"project"`
	Region              string `json:"region"`
	TempLocation        string `json:"tempLocation"`
	ServiceAccountEmail string `json:"serviceAccountEmail,omitempty"`
}

// ServiceTemplates emits one parameter template per processing-capable
// resource, binding the job's resolved input and output locators. A graph
// without processing resources yields an empty list, not an error.
func ServiceTemplates(g *resolve.Graph, prof profile.Profile) ([]Artifact, error) {
	var artifacts []Artifact
	for _, svc := range g.Services() {
		input, ok := g.Resource(svc.Input)
		if !ok {
			return nil, fmt.Errorf("service %s: input resource %s not in graph", svc.ID, svc.Input)
		}
		output, ok := g.Resource(svc.Output)
		if !ok {
			return nil, fmt.Errorf("service %s: output resource %s not in graph", svc.ID, svc.Output)
		}

		doc := serviceTemplate{
			Name: svc.Name,
			Environment: serviceEnv{
				Project:             prof.Project,
				Region:              prof.Region,
				TempLocation:        svc.Attrs["temp_gcs_location"],
				ServiceAccountEmail: prof.Options.ServiceAccount,
			},
			Parameters: map[string]string{
				"input":  input.Locator,
				"output": output.Locator,
			},
		}
		content, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("service %s: %w", svc.ID, err)
		}

		artifacts = append(artifacts, Artifact{
			Kind:    KindServiceTemplate,
			Format:  "json",
			Name:    svc.Name + ".json",
			Content: string(content) + "\n",
		})
	}
	return artifacts, nil
}
