package cli

import (
	"flag"
	"fmt"
	"io"

	"github.com/featuregrid/featuregrid/internal/app"
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

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("featuregrid", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
featuregrid - dependency-scheduled feature extraction for CI build records.

Usage:
  featuregrid [options] [PIPELINE_PATH]

Arguments:
  PIPELINE_PATH
    Path to an .hcl pipeline manifest (nodes, resources, seeds).

Options:
`)
		flagSet.PrintDefaults()
	}

	pipelineFlag := flagSet.String("pipeline", "", "Path to the pipeline manifest.")
	pFlag := flagSet.String("p", "", "Path to the pipeline manifest (shorthand).")
	profileFlag := flagSet.String("profile", "", "Path to a YAML extraction profile.")
	workersFlag := flagSet.Int("workers", 4, "Number of concurrent workers per execution level.")
	parallelFlag := flagSet.Bool("parallel", false, "Dispatch each execution level concurrently.")
	failFastFlag := flagSet.Bool("fail-fast", false, "Stop scheduling levels after the first node failure.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Logging level. Options: 'debug', 'info', 'warn', 'error'.")
	healthPortFlag := flagSet.Int("health-port", 0, "Port for the health/metrics HTTP server. 0 is disabled.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	pipelinePath := *pipelineFlag
	if pipelinePath == "" {
		pipelinePath = *pFlag
	}
	if pipelinePath == "" && flagSet.NArg() > 0 {
		pipelinePath = flagSet.Arg(0)
	}

	return &app.Config{
		PipelinePath: pipelinePath,
		ProfilePath:  *profileFlag,
		LogFormat:    *logFormatFlag,
		LogLevel:     *logLevelFlag,
		HealthPort:   *healthPortFlag,
		Workers:      *workersFlag,
		Parallel:     *parallelFlag,
		FailFast:     *failFastFlag,
	}, false, nil
}
