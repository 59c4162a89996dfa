// Package profile describes the target cloud of a generation run. A Profile
// is supplied once per run and is read-only to every compilation stage.
package profile

import (
	"errors"
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// defaultTerraformVersion is used when no version constraint is configured.
const defaultTerraformVersion = ">= 1.5.0"

// Options carries per-run overrides recognized by the artifact generators.
type Options struct {
	// TerraformVersion pins required_version in the provisioning config.
	TerraformVersion string
	// StateBucket, when set, configures a remote state backend.
	StateBucket string
	// AutoApprove makes the deployment script apply non-interactively.
	AutoApprove bool
	// ServiceAccount is attached to resources needing elevated privileges.
	// When empty, such resources are flagged by the validator as warnings.
	ServiceAccount string
}

// Profile is the configuration record for one target cloud.
type Profile struct {
	Provider string
	Project  string
	Region   string
	Options  Options
}

// New constructs a validated profile, defaulting the terraform version
// constraint when none is given.
func New(provider, project, region string, opts Options) (Profile, error) {
	if opts.TerraformVersion == "" {
		opts.TerraformVersion = defaultTerraformVersion
	}
	p := Profile{Provider: provider, Project: project, Region: region, Options: opts}
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// envSpec is the flat environment shape; nested structs would otherwise
// gain an OPTIONS_ segment in every variable name.
type envSpec struct {
	Provider         string `envconfig:"PROVIDER" default:"gcp"`
	Project          string `envconfig:"PROJECT"`
	Region           string `envconfig:"REGION"`
	TerraformVersion string `envconfig:"TERRAFORM_VERSION" default:">= 1.5.0"`
	StateBucket      string `envconfig:"STATE_BUCKET"`
	AutoApprove      bool   `envconfig:"AUTO_APPROVE"`
	ServiceAccount   string `envconfig:"SERVICE_ACCOUNT"`
}

// FromEnv builds a profile from PIPEFORGE_-prefixed environment variables,
// e.g. PIPEFORGE_PROJECT and PIPEFORGE_AUTO_APPROVE. The result is not
// validated, so callers can overlay values from other sources first.
func FromEnv() (Profile, error) {
	var s envSpec
	if err := envconfig.Process("pipeforge", &s); err != nil {
		return Profile{}, fmt.Errorf("reading profile from environment: %w", err)
	}
	return Profile{
		Provider: s.Provider,
		Project:  s.Project,
		Region:   s.Region,
		Options: Options{
			TerraformVersion: s.TerraformVersion,
			StateBucket:      s.StateBucket,
			AutoApprove:      s.AutoApprove,
			ServiceAccount:   s.ServiceAccount,
		},
	}, nil
}

// Validate checks the profile names a provider, project and region.
func (p Profile) Validate() error {
	if p.Provider == "" {
		return errors.New("profile: provider must not be empty")
	}
	if p.Project == "" {
		return errors.New("profile: project must not be empty")
	}
	if p.Region == "" {
		return errors.New("profile: region must not be empty")
	}
	return nil
}
