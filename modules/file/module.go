// Package file provides the file-operation capabilities: 'create_file',
// 'read_file' and 'delete_file'. Paths are sanitized against traversal
// before any operation runs.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vk/missiongrid/internal/engine"
	"github.com/vk/missiongrid/internal/mission"
	"github.com/vk/missiongrid/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the handlers with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterHandler("create_file", createHandler{})
	r.RegisterHandler("read_file", readHandler{})
	r.RegisterHandler("delete_file", deleteHandler{})
}

// sanitizePath rejects paths that could escape the working tree.
func sanitizePath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("missing 'path' parameter")
	}
	if strings.Contains(path, "..") || strings.Contains(path, "~") {
		return "", fmt.Errorf("path traversal detected: %s", path)
	}
	return filepath.Clean(path), nil
}

func pathParam(step *mission.Step) (string, error) {
	path, _ := step.Parameters["path"].(string)
	return sanitizePath(path)
}

type createHandler struct{}

func (createHandler) Execute(ctx context.Context, step *mission.Step, ec *engine.Context) (any, error) {
	path, err := pathParam(step)
	if err != nil {
		return nil, err
	}
	content, _ := step.Parameters["content"].(string)

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating parent directories: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return nil, fmt.Errorf("writing file: %w", err)
	}

	return map[string]any{"path": path, "bytes_written": len(content)}, nil
}

type readHandler struct{}

func (readHandler) Execute(ctx context.Context, step *mission.Step, ec *engine.Context) (any, error) {
	path, err := pathParam(step)
	if err != nil {
		return nil, err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	ec.SetVariable(step.ID+"_result", string(content))
	return string(content), nil
}

type deleteHandler struct{}

func (deleteHandler) Execute(ctx context.Context, step *mission.Step, ec *engine.Context) (any, error) {
	path, err := pathParam(step)
	if err != nil {
		return nil, err
	}
	if err := os.Remove(path); err != nil {
		return nil, fmt.Errorf("deleting file: %w", err)
	}
	return map[string]any{"path": path, "deleted": true}, nil
}
