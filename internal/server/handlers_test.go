package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return NewServer(t.TempDir(), 0)
}

func postJSON(t *testing.T, srv *Server, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestHandleGetStrategies(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/strategies", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var strategies []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &strategies))
	assert.Contains(t, strategies, "recommended")
	assert.Len(t, strategies, 5)
}

func TestHandleGetProjects(t *testing.T) {
	t.Parallel()

	projectsDir := t.TempDir()
	settingsPath := filepath.Join(projectsDir, "alpha", ".claude", "settings.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(settingsPath), 0755))
	require.NoError(t, os.WriteFile(settingsPath, []byte(`{"permissions": ["Read(*)"]}`), 0644))

	srv := NewServer(projectsDir, 0)
	req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var sources []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sources))
	require.Len(t, sources, 1)
	assert.Equal(t, "alpha", sources[0]["Name"])
}

func TestHandleMerge(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	rec := postJSON(t, srv, "/api/merge", map[string]any{
		"strategy": "recommended",
		"configs": []map[string]any{
			{"permissions": []string{"Read(*)"}, "settings": map[string]any{"theme": "light"}},
			{"permissions": []string{"Read(*)"}, "settings": map[string]any{"theme": "dark"}},
		},
	})

	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Result struct {
			Permissions []string `json:"permissions"`
			Stats       struct {
				ProjectsAnalyzed  int `json:"projectsAnalyzed"`
				ConflictsDetected int `json:"conflictsDetected"`
			} `json:"stats"`
		} `json:"result"`
		Audit struct {
			Passed    bool   `json:"passed"`
			RiskLevel string `json:"riskLevel"`
		} `json:"audit"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"Read(*)"}, body.Result.Permissions)
	assert.Equal(t, 2, body.Result.Stats.ProjectsAnalyzed)
	assert.Equal(t, 1, body.Result.Stats.ConflictsDetected)
	assert.True(t, body.Audit.Passed)
}

func TestHandleMergeErrors(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		body any
	}{
		"unknown strategy": {body: map[string]any{"strategy": "aggressive", "configs": []any{}}},
		"custom without rules": {body: map[string]any{
			"strategy": "custom",
			"configs":  []map[string]any{{"permissions": []string{"Read(*)"}}},
		}},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			srv := newTestServer(t)
			rec := postJSON(t, srv, "/api/merge", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandleMergeInvalidBody(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/merge", bytes.NewReader([]byte("{nope")))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleConflicts(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	rec := postJSON(t, srv, "/api/conflicts", map[string]any{
		"configs": []map[string]any{
			{"settings": map[string]any{"theme": "light"}},
			{"settings": map[string]any{"theme": "dark"}},
		},
	})

	assert.Equal(t, http.StatusOK, rec.Code)

	var report struct {
		Conflicts []struct {
			Type string `json:"type"`
			Path string `json:"path"`
		} `json:"conflicts"`
		Summary struct {
			TotalConflicts int `json:"totalConflicts"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	require.Len(t, report.Conflicts, 1)
	assert.Equal(t, "setting-value", report.Conflicts[0].Type)
	assert.Equal(t, "settings.theme", report.Conflicts[0].Path)
	assert.Equal(t, 1, report.Summary.TotalConflicts)
}

func TestHandleAudit(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	rec := postJSON(t, srv, "/api/audit", map[string]any{
		"permissions": []string{"Write(/etc/*)"},
	})

	assert.Equal(t, http.StatusOK, rec.Code)

	var result struct {
		Passed    bool   `json:"passed"`
		RiskLevel string `json:"riskLevel"`
		Issues    []struct {
			Type string `json:"type"`
		} `json:"issues"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.False(t, result.Passed)
	assert.Equal(t, "critical", result.RiskLevel)
	require.Len(t, result.Issues, 1)
	assert.Equal(t, "dangerous-permission", result.Issues[0].Type)
}

func TestHubBroadcastToSubscriber(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	ch := hub.Subscribe()
	defer hub.Unsubscribe(ch)

	hub.Broadcast([]byte(`{"type":"merge"}`))

	select {
	case msg := <-ch:
		assert.JSONEq(t, `{"type":"merge"}`, string(msg))
	default:
		t.Fatal("expected a broadcast message")
	}
}

func TestHubDropsSlowSubscriber(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	ch := hub.Subscribe()

	// Fill the buffer, then overflow it once.
	for i := 0; i <= EventBufferSize; i++ {
		hub.Broadcast([]byte("x"))
	}

	// The channel was closed when it overflowed; drain to the close.
	count := 0
	for range ch {
		count++
	}
	assert.Equal(t, EventBufferSize, count)
}

func TestMergeBroadcastsEvent(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	ch := srv.hub.Subscribe()
	defer srv.hub.Unsubscribe(ch)

	postJSON(t, srv, "/api/merge", map[string]any{
		"strategy": "recommended",
		"configs":  []map[string]any{{"permissions": []string{"Read(*)"}}},
	})

	select {
	case msg := <-ch:
		var evt struct {
			Type string `json:"type"`
		}
		require.NoError(t, json.Unmarshal(msg, &evt))
		assert.Equal(t, "merge", evt.Type)
	default:
		t.Fatal("expected a merge event broadcast")
	}
}
