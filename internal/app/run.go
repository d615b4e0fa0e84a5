package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/vk/missiongrid/internal/ctxlog"
	"github.com/vk/missiongrid/internal/loader"
)

// Run loads the configured mission, executes it, and writes the full result
// trace as JSON.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	m, err := loader.Load(ctx, a.config.MissionPath)
	if err != nil {
		return fmt.Errorf("failed to load mission: %w", err)
	}

	env, err := a.buildEnvironment()
	if err != nil {
		return err
	}
	a.executor.Environment = env

	a.logger.Info("Mission loaded.", "name", m.Name, "version", m.Version, "steps", len(m.Steps))

	result, err := a.executor.Execute(ctx, m)
	if err != nil {
		return fmt.Errorf("mission execution failed: %w", err)
	}

	encoder := json.NewEncoder(a.outW)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		return fmt.Errorf("encoding mission result: %w", err)
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// buildEnvironment assembles the read-only environment map for the run: the
// process environment, overlaid with the optional env file.
func (a *App) buildEnvironment() (map[string]string, error) {
	env := make(map[string]string)
	for _, entry := range os.Environ() {
		if k, v, ok := strings.Cut(entry, "="); ok {
			env[k] = v
		}
	}

	if a.config.EnvFile != "" {
		fileEnv, err := godotenv.Read(a.config.EnvFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", a.config.EnvFile, err)
		}
		for k, v := range fileEnv {
			env[k] = v
		}
		a.logger.Debug("Env file loaded.", "path", a.config.EnvFile, "keys", len(fileEnv))
	}

	return env, nil
}
