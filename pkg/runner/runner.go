package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/aretw0/intake"
	"github.com/aretw0/intake/internal/logging"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/ports"
)

// Runner walks a questionnaire one visible question at a time using an IOHandler.
// This allows for easy testing and integration with different frontends (CLI, TUI, JSON).
type Runner struct {
	// Handler is the strategy for IO.
	Handler IOHandler

	// Logger is used for internal debug logging.
	Logger *slog.Logger

	// Store persists the session after every change when SessionID is set.
	Store     ports.StateStore
	SessionID string

	// Submitter receives the order built from OrderTemplate once the answers are submitted.
	Submitter     ports.OrderSubmitter
	OrderTemplate domain.Order
}

// Result is the outcome of a run.
type Result struct {
	State     *domain.State
	Payload   domain.Payload
	Submitted bool
}

// NewRunner creates a new Runner. Without options it talks to Stdin/Stdout and keeps no state.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{}
	for _, opt := range opts {
		opt(r)
	}
	if r.Logger == nil {
		r.Logger = logging.NewNop()
	}
	if r.Handler == nil {
		r.Handler = NewTextHandler(os.Stdin, os.Stdout)
	}
	return r
}

// Run asks the visible questions until the form is submitted or the user exits.
// If initial is nil the session is resumed from the Store, or started fresh.
func (r *Runner) Run(ctx context.Context, engine *intake.Engine, initial *domain.State) (*Result, error) {
	state, err := r.resolveInitialState(ctx, engine, initial)
	if err != nil {
		return nil, err
	}
	if state.Status == domain.StatusSubmitted {
		return nil, domain.ErrAlreadySubmitted
	}

	current, ok := resumePoint(engine, state)
	if !ok {
		return nil, fmt.Errorf("questionnaire has no visible questions")
	}

	for {
		if err := r.Handler.Output(ctx, r.prompt(engine, state, current)); err != nil {
			return nil, err
		}

		text, err := r.Handler.Input(ctx)
		if err != nil {
			return nil, err
		}

		switch strings.ToLower(strings.TrimSpace(text)) {
		case "exit", "quit":
			r.Logger.Debug("run interrupted by user", "question", current.ID)
			return &Result{State: state}, nil
		case "back":
			prev, ok, err := engine.Previous(state, current.ID)
			if err != nil {
				return nil, err
			}
			if !ok {
				_ = r.Handler.SystemOutput(ctx, "Already at the first question.")
				continue
			}
			current = prev
			continue
		case "", "next":
			can, err := engine.CanProceed(state, current.ID)
			if err != nil {
				return nil, err
			}
			if !can {
				_ = r.Handler.SystemOutput(ctx, "An answer is required.")
				continue
			}
		default:
			answer, err := parseAnswer(current, text)
			if err == nil {
				state, err = engine.Record(ctx, state, current.ID, answer)
			}
			if err != nil {
				_ = r.Handler.SystemOutput(ctx, err.Error())
				continue
			}
			if err := r.save(ctx, state); err != nil {
				return nil, err
			}
		}

		next, ok, err := engine.Next(state, current.ID)
		if err != nil {
			return nil, err
		}
		if ok {
			current = next
			continue
		}

		if !engine.IsComplete(state) {
			// Answers changed visibility behind us; jump back to the first gap.
			view, err := engine.View(state)
			if err != nil {
				return nil, err
			}
			if q, found := findQuestion(view.Questions, view.Missing); found {
				_ = r.Handler.SystemOutput(ctx, "Some required questions are still unanswered.")
				current = q
				continue
			}
		}

		return r.submit(ctx, engine, state)
	}
}

func (r *Runner) submit(ctx context.Context, engine *intake.Engine, state *domain.State) (*Result, error) {
	next, payload, err := engine.Submit(ctx, state)
	if err != nil {
		return nil, err
	}

	if r.Submitter != nil {
		order := r.OrderTemplate
		if order.SessionKey == "" {
			order.SessionKey = next.SessionID
		}
		order.Questionnaire = payload
		if err := r.Submitter.SubmitOrder(ctx, order); err != nil {
			// The unsubmitted state stays stored so the run can be retried.
			return nil, fmt.Errorf("failed to submit order: %w", err)
		}
	}

	if err := r.save(ctx, next); err != nil {
		return nil, err
	}

	if err := r.Handler.Summary(ctx, engine.Questions(), payload); err != nil {
		return nil, err
	}
	return &Result{State: next, Payload: payload, Submitted: true}, nil
}

func (r *Runner) resolveInitialState(ctx context.Context, engine *intake.Engine, initial *domain.State) (*domain.State, error) {
	if initial != nil {
		return engine.Refresh(initial)
	}

	if r.Store != nil && r.SessionID != "" {
		stored, err := r.Store.Load(ctx, r.SessionID)
		switch {
		case err == nil:
			r.Logger.Info("resuming session", "session_id", r.SessionID)
			return engine.Refresh(stored)
		case !errors.Is(err, domain.ErrSessionNotFound):
			return nil, fmt.Errorf("failed to load session: %w", err)
		}
	}

	state, err := engine.Start(ctx, r.SessionID)
	if err != nil {
		return nil, err
	}
	return state, r.save(ctx, state)
}

func (r *Runner) save(ctx context.Context, state *domain.State) error {
	if r.Store == nil || r.SessionID == "" {
		return nil
	}
	if err := r.Store.Save(ctx, r.SessionID, state); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *Runner) prompt(engine *intake.Engine, state *domain.State, q domain.Question) Prompt {
	visible := engine.Visible(state)
	p := Prompt{
		Question: q,
		Total:    len(visible),
		Progress: engine.Progress(state),
	}
	for i, v := range visible {
		if v.ID == q.ID {
			p.Position = i + 1
			break
		}
	}
	if a, ok := state.Answers[q.ID]; ok {
		p.Answer = &a
	}
	return p
}

// resumePoint returns the first visible unanswered question, or the first visible one.
func resumePoint(engine *intake.Engine, state *domain.State) (domain.Question, bool) {
	visible := engine.Visible(state)
	if len(visible) == 0 {
		return domain.Question{}, false
	}
	for _, q := range visible {
		if !state.Answers.Answered(q.ID) {
			return q, true
		}
	}
	return visible[0], true
}

func findQuestion(questions []domain.Question, ids []string) (domain.Question, bool) {
	if len(ids) == 0 {
		return domain.Question{}, false
	}
	for _, q := range questions {
		if q.ID == ids[0] {
			return q, true
		}
	}
	return domain.Question{}, false
}
