// Package http_request provides the 'http_request' capability: a single
// HTTP call whose response body is stored as the step's response variable.
package http_request

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/vk/missiongrid/internal/ctxlog"
	"github.com/vk/missiongrid/internal/engine"
	"github.com/vk/missiongrid/internal/mission"
	"github.com/vk/missiongrid/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct {
	// Client allows tests to inject a configured client. Nil selects
	// http.DefaultClient.
	Client *http.Client
}

type handler struct {
	client *http.Client
}

func (h handler) Execute(ctx context.Context, step *mission.Step, ec *engine.Context) (any, error) {
	logger := ctxlog.FromContext(ctx).With("step", step.ID)

	url, ok := step.Parameters["url"].(string)
	if !ok {
		return nil, fmt.Errorf("missing 'url' parameter")
	}
	method := "GET"
	if m, ok := step.Parameters["method"].(string); ok {
		method = strings.ToUpper(m)
	}

	var body io.Reader
	if b, ok := step.Parameters["body"].(string); ok {
		body = strings.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	if headers, ok := step.Parameters["headers"].(map[string]any); ok {
		for k, v := range headers {
			if s, ok := v.(string); ok {
				req.Header.Set(k, s)
			}
		}
	}

	logger.Debug("Sending HTTP request.", "method", method, "url", url)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	ec.SetVariable(step.ID+"_response", string(respBody))

	return map[string]any{
		"url":      url,
		"method":   method,
		"status":   resp.StatusCode,
		"response": string(respBody),
	}, nil
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	client := m.Client
	if client == nil {
		client = http.DefaultClient
	}
	r.RegisterHandler("http_request", handler{client: client})
}
