package render

import (
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/mz/pipeforge/internal/profile"
	"github.com/mz/pipeforge/internal/resolve"
	"github.com/zclconf/go-cty/cty"
)

// Provisioning emits the resource-provisioning configuration: one resource
// block per descriptor in dependency order, with cross-references between
// blocks emitted as traversals so the provisioning tool can resolve ordering
// itself.
func Provisioning(g *resolve.Graph, prof profile.Profile) (Artifact, error) {
	ordered, err := topoSort(g)
	if err != nil {
		return Artifact{}, err
	}

	f := hclwrite.NewEmptyFile()
	body := f.Body()

	tfBlock := body.AppendNewBlock("terraform", nil)
	tfBlock.Body().SetAttributeValue("required_version", cty.StringVal(prof.Options.TerraformVersion))
	if prof.Options.StateBucket != "" {
		backend := tfBlock.Body().AppendNewBlock("backend", []string{"gcs"})
		backend.Body().SetAttributeValue("bucket", cty.StringVal(prof.Options.StateBucket))
		backend.Body().SetAttributeValue("prefix", cty.StringVal("pipelines/state"))
	}

	body.AppendNewline()
	providerBlock := body.AppendNewBlock("provider", []string{"google"})
	providerBlock.Body().SetAttributeValue("project", cty.StringVal(prof.Project))
	providerBlock.Body().SetAttributeValue("region", cty.StringVal(prof.Region))

	for _, d := range ordered {
		body.AppendNewline()
		if err := appendResource(body, g, d, prof); err != nil {
			return Artifact{}, err
		}
	}

	return Artifact{
		Kind:    KindProvisioningConfig,
		Format:  "hcl",
		Name:    "main.tf",
		Content: string(f.Bytes()),
	}, nil
}

// appendResource writes one resource block. Attributes backed by a reference
// become traversals to the referenced block; everything else is a literal.
func appendResource(body *hclwrite.Body, g *resolve.Graph, d *resolve.Descriptor, prof profile.Profile) error {
	block := body.AppendNewBlock("resource", []string{d.Type, d.Label})
	blockBody := block.Body()

	referenced := make(map[string]bool, len(d.Refs))
	for _, name := range attributeNames(d) {
		if ref, ok := d.Refs[name]; ok {
			target, found := g.Resource(ref.TargetID)
			if !found {
				return &DanglingReferenceError{SourceID: d.ID, TargetID: ref.TargetID}
			}
			blockBody.SetAttributeTraversal(name, hcl.Traversal{
				hcl.TraverseRoot{Name: target.Type},
				hcl.TraverseAttr{Name: target.Label},
				hcl.TraverseAttr{Name: ref.TargetAttr},
			})
			referenced[ref.TargetID] = true
			continue
		}
		blockBody.SetAttributeValue(name, cty.StringVal(d.Attrs[name]))
	}

	if d.Service && prof.Options.ServiceAccount != "" {
		blockBody.SetAttributeValue("service_account_email", cty.StringVal(prof.Options.ServiceAccount))
	}

	// Dependencies not already expressed through an attribute reference get
	// an explicit depends_on entry.
	var explicit []hclwrite.Tokens
	for _, depID := range d.DependsOn {
		if referenced[depID] {
			continue
		}
		target, found := g.Resource(depID)
		if !found {
			return &DanglingReferenceError{SourceID: d.ID, TargetID: depID}
		}
		explicit = append(explicit, hclwrite.TokensForTraversal(hcl.Traversal{
			hcl.TraverseRoot{Name: target.Type},
			hcl.TraverseAttr{Name: target.Label},
		}))
	}
	if len(explicit) > 0 {
		blockBody.SetAttributeRaw("depends_on", hclwrite.TokensForTuple(explicit))
	}
	return nil
}

// attributeNames returns the union of literal and referenced attribute names,
// sorted for reproducible output.
func attributeNames(d *resolve.Descriptor) []string {
	seen := make(map[string]bool, len(d.Attrs)+len(d.Refs))
	names := make([]string, 0, len(d.Attrs)+len(d.Refs))
	for name := range d.Attrs {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	for name := range d.Refs {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
