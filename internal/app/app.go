package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mz/pipeforge/internal/compiler"
	"github.com/mz/pipeforge/internal/ctxlog"
	"github.com/mz/pipeforge/internal/frontend"
	"github.com/mz/pipeforge/internal/profile"
	"github.com/mz/pipeforge/internal/registry"
	"github.com/mz/pipeforge/internal/render"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	loader   *frontend.Loader
	compiler *compiler.Compiler
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App with its own isolated logger, registry and compiler.
// An unknown provider is a startup error and panics; main recovers to give
// the user a clean message.
func NewApp(outW io.Writer, cfg *Config) *App {
	logger := newLogger(cfg, outW)
	logger.Debug("Logger configured successfully.")

	var reg *registry.Registry
	switch cfg.Provider {
	case "", "gcp":
		reg = registry.NewGCP()
	default:
		panic(fmt.Errorf("no connector table available for provider %q", cfg.Provider))
	}
	logger.Debug("Connector registry constructed.", "provider", reg.Provider())

	return &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		loader:   frontend.NewLoader(),
		compiler: compiler.New(reg),
	}
}

// Run loads the pipeline declaration, compiles it, and delivers the
// artifacts to the configured destination.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	specs, err := a.loader.Load(ctx, a.config.PipelinePath)
	if err != nil {
		return fmt.Errorf("loading pipeline declaration: %w", err)
	}

	prof, err := a.buildProfile()
	if err != nil {
		return err
	}

	result, err := a.compiler.Generate(ctx, specs, prof)
	if err != nil {
		var cerr *compiler.CompilationError
		if errors.As(err, &cerr) && cerr.Report != nil {
			for _, f := range cerr.Report.Errors() {
				a.logger.Error("Validation finding.", "finding", f.String())
			}
		}
		return err
	}

	for _, f := range result.Report.Warnings() {
		a.logger.Warn("Validation finding.", "finding", f.String())
	}

	return a.deliver(result.Artifacts)
}

// buildProfile assembles the provider profile from flags, falling back to
// PIPEFORGE_-prefixed environment variables when project or region are not
// given on the command line.
func (a *App) buildProfile() (profile.Profile, error) {
	opts := profile.Options{
		StateBucket:    a.config.StateBucket,
		AutoApprove:    a.config.AutoApprove,
		ServiceAccount: a.config.ServiceAccount,
	}
	if a.config.TerraformVersion != "" {
		opts.TerraformVersion = a.config.TerraformVersion
	}

	if a.config.Project == "" || a.config.Region == "" {
		prof, err := profile.FromEnv()
		if err != nil {
			return profile.Profile{}, err
		}
		if a.config.Project != "" {
			prof.Project = a.config.Project
		}
		if a.config.Region != "" {
			prof.Region = a.config.Region
		}
		if a.config.StateBucket != "" {
			prof.Options.StateBucket = opts.StateBucket
		}
		if a.config.TerraformVersion != "" {
			prof.Options.TerraformVersion = opts.TerraformVersion
		}
		if a.config.ServiceAccount != "" {
			prof.Options.ServiceAccount = opts.ServiceAccount
		}
		prof.Options.AutoApprove = prof.Options.AutoApprove || opts.AutoApprove
		if err := prof.Validate(); err != nil {
			return profile.Profile{}, err
		}
		return prof, nil
	}

	return profile.New(a.config.Provider, a.config.Project, a.config.Region, opts)
}

// deliver writes artifacts to the out directory, or to the app's writer when
// no directory is configured.
func (a *App) deliver(artifacts []render.Artifact) error {
	if a.config.OutDir == "" {
		for _, art := range artifacts {
			fmt.Fprintf(a.outW, "# --- %s (%s) ---\n%s\n", art.Name, art.Kind, art.Content)
		}
		return nil
	}

	if err := os.MkdirAll(a.config.OutDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	for _, art := range artifacts {
		mode := os.FileMode(0o644)
		if art.Kind == render.KindDeploymentScript {
			mode = 0o755
		}
		path := filepath.Join(a.config.OutDir, art.Name)
		if err := os.WriteFile(path, []byte(art.Content), mode); err != nil {
			return fmt.Errorf("writing artifact %s: %w", art.Name, err)
		}
		a.logger.Info("Artifact written.", "path", path, "kind", string(art.Kind))
	}
	return nil
}
