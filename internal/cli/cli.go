package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/mz/pipeforge/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app config,
// a boolean indicating the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("pipeforge", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
pipeforge - compile declared data pipelines into deployable cloud infrastructure.

Usage:
  pipeforge [options] [PIPELINE_PATH]

Arguments:
  PIPELINE_PATH
    Path to a pipeline declaration .hcl file or a directory containing them.

Options:
`)
		flagSet.PrintDefaults()
	}

	pipelineFlag := flagSet.String("pipeline", "", "Path to the pipeline declaration file or directory.")
	pFlag := flagSet.String("p", "", "Path to the pipeline declaration file or directory (shorthand).")
	outFlag := flagSet.String("out", "", "Directory to write artifacts into. Empty prints them to stdout.")
	providerFlag := flagSet.String("provider", "gcp", "Target cloud provider.")
	projectFlag := flagSet.String("project", "", "Target project id. Falls back to PIPEFORGE_PROJECT.")
	regionFlag := flagSet.String("region", "", "Target region. Falls back to PIPEFORGE_REGION.")
	stateBucketFlag := flagSet.String("state-bucket", "", "Bucket for remote provisioning state.")
	tfVersionFlag := flagSet.String("terraform-version", "", "Required provisioning tool version constraint.")
	serviceAccountFlag := flagSet.String("service-account", "", "Service account attached to processing jobs.")
	autoApproveFlag := flagSet.Bool("auto-approve", false, "Make the deployment script apply non-interactively.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	path := ""
	if *pipelineFlag != "" {
		path = *pipelineFlag
	} else if *pFlag != "" {
		path = *pFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}

	if path == "" {
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	config, err := app.NewConfig(app.Config{
		PipelinePath:     path,
		OutDir:           *outFlag,
		Provider:         *providerFlag,
		Project:          *projectFlag,
		Region:           *regionFlag,
		StateBucket:      *stateBucketFlag,
		TerraformVersion: *tfVersionFlag,
		ServiceAccount:   *serviceAccountFlag,
		AutoApprove:      *autoApproveFlag,
		LogFormat:        logFormat,
		LogLevel:         logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	return config, false, nil
}
