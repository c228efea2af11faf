package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/aretw0/intake"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/runner"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const maxRequestBody = 1 << 20

// CreateSessionRequest is the optional body of POST /sessions.
type CreateSessionRequest struct {
	SessionID string `json:"session_id,omitempty"`
}

// AnswerRequest is the body of PUT /sessions/{id}/answers/{qid}.
type AnswerRequest struct {
	Answer *domain.Answer `json:"answer"`
}

// OptionRequest is the body of the select and deselect endpoints.
type OptionRequest struct {
	Value string `json:"value"`
}

// SubmitRequest is the optional body of POST /sessions/{id}/submit.
// The checkout details are forwarded with the answers when an order submitter is configured.
type SubmitRequest struct {
	SessionKey string           `json:"sessionKey,omitempty"`
	OfferingID string           `json:"offeringId,omitempty"`
	Customer   *domain.Customer `json:"customer,omitempty"`
	Shipping   *domain.Address  `json:"shipping,omitempty"`
	Payment    map[string]any   `json:"payment,omitempty"`
}

// SubmitResponse is returned by a successful submit.
type SubmitResponse struct {
	Payload domain.Payload `json:"payload"`
	View    *domain.View   `json:"view"`
	Ordered bool           `json:"ordered"`
}

// NavigationResponse answers GET /sessions/{id}/navigation.
type NavigationResponse struct {
	From       string           `json:"from,omitempty"`
	Next       *domain.Question `json:"next"`
	Previous   *domain.Question `json:"previous"`
	CanProceed *bool            `json:"can_proceed,omitempty"`
}

// QuestionnaireResponse answers GET /questionnaire.
type QuestionnaireResponse struct {
	Name      string            `json:"name,omitempty"`
	Questions []domain.Question `json:"questions"`
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "intake-http",
		"version": strings.TrimSpace(intake.Version),
	})
}

// GetQuestionnaire handles GET /questionnaire.
func (s *Server) GetQuestionnaire(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, QuestionnaireResponse{
		Name:      s.name,
		Questions: s.Engine.Questions(),
	})
}

// ListSessions handles GET /sessions.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Sessions.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"sessions": ids})
}

// CreateSession handles POST /sessions.
// An existing session is returned as is (200); a new one is created (201).
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	var body CreateSessionRequest
	if err := decodeOptional(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	if body.SessionID == "" {
		body.SessionID = uuid.NewString()
	}

	state, created, err := s.Sessions.LoadOrStart(r.Context(), body.SessionID, s.Engine.Start)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
		s.publish(nil, state)
	}
	s.respondView(w, r, status, state)
}

// GetSession handles GET /sessions/{id}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	state, err := s.load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respondView(w, r, http.StatusOK, state)
}

// DeleteSession handles DELETE /sessions/{id}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RecordAnswer handles PUT /sessions/{id}/answers/{qid}.
func (s *Server) RecordAnswer(w http.ResponseWriter, r *http.Request) {
	var body AnswerRequest
	if err := decode(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	if body.Answer == nil {
		s.writeError(w, r, fmt.Errorf("%w: answer is required", errBadRequest))
		return
	}
	answer, err := runner.SanitizeAnswer(*body.Answer)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	qid := chi.URLParam(r, "qid")
	s.mutate(w, r, func(ctx context.Context, state *domain.State) (*domain.State, error) {
		return s.Engine.Record(ctx, state, qid, answer)
	})
}

// SelectOption handles POST /sessions/{id}/answers/{qid}/select.
func (s *Server) SelectOption(w http.ResponseWriter, r *http.Request) {
	s.toggle(w, r, s.Engine.Select)
}

// DeselectOption handles POST /sessions/{id}/answers/{qid}/deselect.
func (s *Server) DeselectOption(w http.ResponseWriter, r *http.Request) {
	s.toggle(w, r, s.Engine.Deselect)
}

type toggleFunc func(ctx context.Context, state *domain.State, questionID, value string) (*domain.State, error)

func (s *Server) toggle(w http.ResponseWriter, r *http.Request, op toggleFunc) {
	var body OptionRequest
	if err := decode(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	if body.Value == "" {
		s.writeError(w, r, fmt.Errorf("%w: value is required", errBadRequest))
		return
	}
	qid := chi.URLParam(r, "qid")
	s.mutate(w, r, func(ctx context.Context, state *domain.State) (*domain.State, error) {
		return op(ctx, state, qid, body.Value)
	})
}

// GetNavigation handles GET /sessions/{id}/navigation?from=.
func (s *Server) GetNavigation(w http.ResponseWriter, r *http.Request) {
	state, err := s.load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	from := r.URL.Query().Get("from")
	resp := NavigationResponse{From: from}

	next, ok, err := s.Engine.Next(state, from)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if ok {
		resp.Next = &next
	}

	if from != "" {
		prev, ok, err := s.Engine.Previous(state, from)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if ok {
			resp.Previous = &prev
		}
		can, err := s.Engine.CanProceed(state, from)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		resp.CanProceed = &can
	}

	s.writeJSON(w, http.StatusOK, resp)
}

// Submit handles POST /sessions/{id}/submit.
// With an order submitter the session is only marked submitted once the order was accepted.
func (s *Server) Submit(w http.ResponseWriter, r *http.Request) {
	var body SubmitRequest
	if err := decodeOptional(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}

	id := chi.URLParam(r, "id")
	var (
		before  *domain.State
		payload domain.Payload
	)
	after, err := s.Sessions.Update(r.Context(), id, func(ctx context.Context, stored *domain.State) (*domain.State, error) {
		state, err := s.Engine.Refresh(stored)
		if err != nil {
			return nil, err
		}
		before = state

		next, p, err := s.Engine.Submit(ctx, state)
		if err != nil {
			return nil, err
		}
		payload = p

		if s.Submitter != nil {
			order := domain.Order{
				SessionKey:    body.SessionKey,
				OfferingID:    body.OfferingID,
				Customer:      body.Customer,
				Shipping:      body.Shipping,
				Payment:       body.Payment,
				Questionnaire: p,
			}
			if order.SessionKey == "" {
				order.SessionKey = id
			}
			if err := s.Submitter.SubmitOrder(ctx, order); err != nil {
				return nil, fmt.Errorf("%w: %v", errUpstream, err)
			}
		}
		return next, nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.publish(before, after)

	view, err := s.Engine.View(after)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, SubmitResponse{
		Payload: payload,
		View:    view,
		Ordered: s.Submitter != nil,
	})
}

// mutate applies op to the stored session under its lock, saves the result,
// broadcasts the diff and replies with the new view.
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, op func(context.Context, *domain.State) (*domain.State, error)) {
	var before *domain.State
	after, err := s.Sessions.Update(r.Context(), chi.URLParam(r, "id"), func(ctx context.Context, stored *domain.State) (*domain.State, error) {
		state, err := s.Engine.Refresh(stored)
		if err != nil {
			return nil, err
		}
		before = state
		return op(ctx, state)
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.publish(before, after)
	s.respondView(w, r, http.StatusOK, after)
}

func (s *Server) load(ctx context.Context, id string) (*domain.State, error) {
	stored, err := s.Sessions.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.Engine.Refresh(stored)
}

func (s *Server) respondView(w http.ResponseWriter, r *http.Request, status int, state *domain.State) {
	view, err := s.Engine.View(state)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, status, view)
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: invalid request body: %w", errBadRequest, err)
	}
	return nil
}

// decodeOptional accepts an empty body.
func decodeOptional(r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	if err := decode(r, v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
