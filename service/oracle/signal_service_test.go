package oracle

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"coursemarket/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPullSignals(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/signals", r.URL.Path)
		assert.Equal(t, "7", r.URL.Query().Get("offset"))
		assert.Equal(t, "100", r.URL.Query().Get("limit"))

		signals := []*core.CompletionSignal{
			{ID: 99, Sequence: 8, TraceID: "trace-8", UserID: "alice", CourseID: "COURSE-001", Status: core.SignalStatusDone},
			{ID: 100, Sequence: 9, TraceID: "trace-9", UserID: "bob", CourseID: "COURSE-002"},
		}
		_ = json.NewEncoder(w).Encode(signals)
	}))
	defer server.Close()

	service := New(&core.Config{Grader: core.Grader{EndPoint: server.URL}})

	signals, err := service.PullSignals(context.Background(), 7, 100)
	require.Nil(t, err)
	require.Len(t, signals, 2)

	// the grader's row ids and statuses never leak into the local queue
	for _, signal := range signals {
		assert.Equal(t, uint64(0), signal.ID)
		assert.Equal(t, core.SignalStatusPending, signal.Status)
	}

	assert.Equal(t, uint64(8), signals[0].Sequence)
	assert.Equal(t, "trace-8", signals[0].TraceID)
	assert.Equal(t, "alice", signals[0].UserID)
}

func TestPullSignalsEndpointError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "grader offline", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	service := New(&core.Config{Grader: core.Grader{EndPoint: server.URL}})

	_, err := service.PullSignals(context.Background(), 0, 100)
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "grader offline")
}
