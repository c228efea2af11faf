package cli

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServe(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ready := make(chan http.Handler, 1)
	done := make(chan error, 1)
	cfg := Config{Source: writeScreening(t), Store: StoreMemory, Addr: "127.0.0.1:0"}
	go func() {
		done <- Serve(ctx, cfg, ServeOptions{
			RequestTimeout: time.Second,
			Ready:          func(h http.Handler) { ready <- h },
		})
	}()

	var handler http.Handler
	select {
	case handler = <-ready:
	case err := <-done:
		t.Fatalf("server exited early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start")
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sessions", bytes.NewBufferString(`{"session_id":"s1"}`)))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "intake_sessions_started_total 1")
	assert.Contains(t, rec.Body.String(), "go_goroutines")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServe_InvalidConfig(t *testing.T) {
	err := Serve(context.Background(), Config{Source: writeScreening(t), Store: "mongo"}, ServeOptions{})
	assert.ErrorContains(t, err, "unknown store")
}

func TestServeMCP_UnknownTransport(t *testing.T) {
	err := ServeMCP(context.Background(), Config{Source: writeScreening(t), Store: StoreMemory}, MCPOptions{Transport: "carrier-pigeon"})
	assert.ErrorContains(t, err, "unknown transport")
}
