package cli

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const screeningYAML = `id: screening
title: Screening
questions:
  - id: q1
    title: Have you taken this medication before?
    kind: single-choice
    order: 1
    options:
      - {value: "yes", label: "Yes"}
      - {value: "no", label: "No"}
  - id: q2
    title: Which side effects did you notice?
    kind: multi-choice
    order: 2
    options:
      - {value: nausea, label: Nausea}
      - {value: none, label: None of the above, exclusive: true}
    requires:
      q1: "yes"
  - id: q3
    title: Why are you starting treatment?
    kind: free-text
    order: 3
    requires:
      q1: "no"
`

func writeScreening(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "screening.yaml")
	require.NoError(t, os.WriteFile(path, []byte(screeningYAML), 0644))
	return path
}

// partnerServer serves the partner session fixture and records posted orders.
func partnerServer(t *testing.T, orders chan<- []byte) *httptest.Server {
	t.Helper()
	fixture, err := os.ReadFile(filepath.Join("..", "..", "pkg", "adapters", "partner", "testdata", "session.json"))
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /intake/session", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("sid") != "sid-1" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(fixture)
	})
	mux.HandleFunc("POST /intake/process", func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if orders != nil {
			orders <- body
		}
		w.WriteHeader(http.StatusCreated)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}
