// Package cli parses command-line arguments into an app configuration.
package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/vk/missiongrid/internal/app"
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
	flagSet := flag.NewFlagSet("missiongrid", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
MissionGrid - A declarative, dependency-ordered mission execution engine.

Usage:
  missiongrid [options] [MISSION_PATH]

Arguments:
  MISSION_PATH
    Path to a mission file (.yaml, .json or .hcl).

Options:
`)
		flagSet.PrintDefaults()
	}

	missionFlag := flagSet.String("mission", "", "Path to the mission file.")
	mFlag := flagSet.String("m", "", "Path to the mission file (shorthand).")
	envFileFlag := flagSet.String("env-file", "", "Optional dotenv file overlaid onto the run's environment.")
	timeoutFlag := flagSet.Int("timeout", 0, "Default per-step timeout in seconds (0 uses the built-in default).")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	path := ""
	if *missionFlag != "" {
		path = *missionFlag
	} else if *mFlag != "" {
		path = *mFlag
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

	if *timeoutFlag < 0 {
		return nil, false, &ExitError{Code: 2, Message: "invalid timeout: must not be negative"}
	}

	config, err := app.NewConfig(app.Config{
		MissionPath:    path,
		EnvFile:        *envFileFlag,
		TimeoutSeconds: *timeoutFlag,
		LogFormat:      logFormat,
		LogLevel:       logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	return config, false, nil
}
