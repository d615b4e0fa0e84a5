// Package command provides the 'command' capability: it spawns an external
// process with the run's environment applied, captures its output and
// stores stdout as the step's result variable.
package command

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/vk/missiongrid/internal/ctxlog"
	"github.com/vk/missiongrid/internal/engine"
	"github.com/vk/missiongrid/internal/mission"
	"github.com/vk/missiongrid/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

type handler struct{}

func (handler) Execute(ctx context.Context, step *mission.Step, ec *engine.Context) (any, error) {
	logger := ctxlog.FromContext(ctx).With("step", step.ID)

	name, ok := step.Parameters["command"].(string)
	if !ok {
		return nil, fmt.Errorf("missing 'command' parameter")
	}

	var args []string
	if raw, ok := step.Parameters["args"].([]any); ok {
		for _, a := range raw {
			if s, ok := a.(string); ok {
				args = append(args, s)
			}
		}
	}

	cmd := exec.CommandContext(ctx, name, args...)
	if dir, ok := step.Parameters["working_dir"].(string); ok {
		cmd.Dir = dir
	}
	for key, value := range ec.Environment() {
		cmd.Env = append(cmd.Env, key+"="+value)
	}

	logger.Debug("Spawning command.", "command", name, "args", args)

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if runErr := cmd.Run(); runErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			return nil, fmt.Errorf("spawning command %q: %w", name, runErr)
		}
		return nil, fmt.Errorf("command failed with exit code %d: %s", exitErr.ExitCode(), strings.TrimSpace(stderr.String()))
	}
	exitCode := cmd.ProcessState.ExitCode()

	ec.SetVariable(step.ID+"_result", strings.TrimSpace(stdout.String()))

	return map[string]any{
		"command":   name,
		"args":      args,
		"exit_code": exitCode,
		"stdout":    stdout.String(),
		"stderr":    stderr.String(),
	}, nil
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterHandler("command", handler{})
}
