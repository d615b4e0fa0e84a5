package loader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vk/missiongrid/internal/ctxlog"
	"github.com/vk/missiongrid/internal/mission"
)

// Load reads, decodes and validates a mission file. The format is chosen by
// extension: .json and .hcl are decoded as such, anything else is treated
// as YAML.
func Load(ctx context.Context, path string) (*mission.Mission, error) {
	logger := ctxlog.FromContext(ctx)

	if path == "" {
		return nil, errors.New("mission path must not be empty")
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading mission file: %w", err)
	}

	var m mission.Mission
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(content, &m); err != nil {
			return nil, fmt.Errorf("parsing JSON mission %s: %w", path, err)
		}
	case ".hcl":
		loaded, err := decodeHCL(path, content)
		if err != nil {
			return nil, err
		}
		m = *loaded
	default:
		if err := yaml.Unmarshal(content, &m); err != nil {
			return nil, fmt.Errorf("parsing YAML mission %s: %w", path, err)
		}
	}

	if err := mission.Validate(&m); err != nil {
		return nil, fmt.Errorf("invalid mission %s: %w", path, err)
	}

	logger.Debug("Mission loaded.", "path", path, "name", m.Name, "steps", len(m.Steps))
	return &m, nil
}
