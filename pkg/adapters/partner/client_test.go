package partner_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/aretw0/intake/pkg/adapters/partner"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ ports.DefinitionLoader = (*partner.Client)(nil)
	_ ports.OrderSubmitter   = (*partner.Client)(nil)
)

func newBackend(t *testing.T, handler http.HandlerFunc) *partner.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := partner.NewClient(srv.URL + "/")
	require.NoError(t, err)
	return c
}

func TestClient_Load(t *testing.T) {
	fixture, err := os.ReadFile("testdata/session.json")
	require.NoError(t, err)

	c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/intake/session", r.URL.Path)
		if r.URL.Query().Get("sid") != "abc 123" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(fixture)
	})

	qs, err := c.Load(context.Background(), "abc 123")
	require.NoError(t, err)
	require.Len(t, qs, 3, "file question is skipped")

	assert.Equal(t, "q1", qs[0].ID)
	assert.Equal(t, domain.KindSingleChoice, qs[0].Kind)
	assert.Equal(t, "<p>Include <b>any</b> GLP-1.</p>", qs[0].Description)
	assert.Equal(t, []domain.Option{
		{ID: "o-yes", Value: "yes", Label: "Yes"},
		{ID: "o-no", Value: "no", Label: "No"},
	}, qs[0].Options, "options ordered by order")

	assert.Equal(t, "q2", qs[1].ID)
	assert.Equal(t, domain.KindMultiChoice, qs[1].Kind)
	assert.Equal(t, []domain.Rule{{ID: "r1", Requirements: []domain.Requirement{{QuestionID: "q1", Value: "yes"}}}}, qs[1].Rules)

	assert.Equal(t, "q3", qs[2].ID)
	assert.Equal(t, domain.KindFreeText, qs[2].Kind)
	assert.Equal(t, "Tell us more", qs[2].Placeholder)
	assert.Empty(t, qs[2].Options)

	_, err = c.Load(context.Background(), "unknown")
	assert.ErrorIs(t, err, domain.ErrQuestionnaireNotFound)
}

func TestClient_FetchSession(t *testing.T) {
	fixture, err := os.ReadFile("testdata/session.json")
	require.NoError(t, err)

	c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(fixture)
	})

	cfg, err := c.FetchSession(context.Background(), "abc")
	require.NoError(t, err)
	require.NotNil(t, cfg.Offering)
	assert.Equal(t, "v-42", cfg.Offering.Variant.ID)
	assert.JSONEq(t, `{"id": "c1", "name": "Acme Health"}`, string(cfg.Company))

	_, err = c.FetchSession(context.Background(), "")
	assert.Error(t, err)
}

func TestClient_LoadWithoutQuestionnaire(t *testing.T) {
	c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"company": {}}`))
	})

	_, err := c.Load(context.Background(), "abc")
	assert.ErrorIs(t, err, domain.ErrQuestionnaireNotFound)
}

func TestClient_SubmitOrder(t *testing.T) {
	var received map[string]any
	c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/intake/process", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusCreated)
	})

	order := domain.Order{
		SessionKey: "abc",
		OfferingID: "v-42",
		Customer:   &domain.Customer{FirstName: "Ada", Email: "ada@example.com"},
		Questionnaire: domain.Payload{
			"q1": domain.Scalar("yes"),
			"q2": domain.Multi("nausea"),
		},
	}
	require.NoError(t, c.SubmitOrder(context.Background(), order))

	assert.Equal(t, "abc", received["sessionKey"])
	assert.Equal(t, "v-42", received["offeringId"])
	assert.Equal(t, map[string]any{"q1": "yes", "q2": []any{"nausea"}}, received["questionnaire"])
}

func TestClient_SubmitOrderFailure(t *testing.T) {
	c := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "payment declined", http.StatusUnprocessableEntity)
	})

	err := c.SubmitOrder(context.Background(), domain.Order{SessionKey: "abc"})
	var se *partner.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusUnprocessableEntity, se.Status)
	assert.Equal(t, "payment declined", se.Body)
}

func TestNewClient_InvalidURL(t *testing.T) {
	_, err := partner.NewClient("not a url")
	assert.Error(t, err)
}
