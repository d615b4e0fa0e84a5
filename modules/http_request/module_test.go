package http_request_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/missiongrid/internal/engine"
	"github.com/vk/missiongrid/internal/mission"
	"github.com/vk/missiongrid/internal/registry"
	"github.com/vk/missiongrid/modules/http_request"
)

func newHandler(t *testing.T, client *http.Client) engine.Handler {
	t.Helper()
	r := registry.New()
	(&http_request.Module{Client: client}).Register(r)
	h, ok := r.Handler("http_request")
	require.True(t, ok)
	return h
}

func TestGetStoresResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, `{"status":"green"}`)
	}))
	defer srv.Close()

	h := newHandler(t, srv.Client())
	ec := engine.NewContext()

	out, err := h.Execute(context.Background(), &mission.Step{
		ID: "probe", Name: "probe", Capability: "http_request",
		Parameters: map[string]any{"url": srv.URL},
	}, ec)
	require.NoError(t, err)

	result, ok := out.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, result["status"])
	assert.Equal(t, "GET", result["method"])
	assert.Equal(t, `{"status":"green"}`, result["response"])

	stored, ok := ec.Variable("probe_response")
	require.True(t, ok)
	assert.Equal(t, `{"status":"green"}`, stored)
}

func TestPostSendsBodyAndHeaders(t *testing.T) {
	var gotMethod, gotBody, gotHeader string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotHeader = r.Header.Get("X-Token")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	h := newHandler(t, srv.Client())

	out, err := h.Execute(context.Background(), &mission.Step{
		ID: "submit", Name: "submit", Capability: "http_request",
		Parameters: map[string]any{
			"url":     srv.URL,
			"method":  "post",
			"body":    `{"payload":1}`,
			"headers": map[string]any{"X-Token": "secret"},
		},
	}, engine.NewContext())
	require.NoError(t, err)

	assert.Equal(t, "POST", gotMethod)
	assert.Equal(t, `{"payload":1}`, gotBody)
	assert.Equal(t, "secret", gotHeader)

	result := out.(map[string]any)
	assert.Equal(t, http.StatusCreated, result["status"])
}

func TestMissingURLParameter(t *testing.T) {
	h := newHandler(t, http.DefaultClient)

	_, err := h.Execute(context.Background(), &mission.Step{
		ID: "probe", Name: "probe", Capability: "http_request",
	}, engine.NewContext())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing 'url'")
}

func TestConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	h := newHandler(t, http.DefaultClient)

	_, err := h.Execute(context.Background(), &mission.Step{
		ID: "probe", Name: "probe", Capability: "http_request",
		Parameters: map[string]any{"url": url},
	}, engine.NewContext())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request failed")
}
