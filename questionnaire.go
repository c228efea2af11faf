package intake

import (
	"context"

	"github.com/aretw0/intake/pkg/domain"
)

// Questionnaire binds an Engine to one session's state for single-caller use,
// such as an embedded widget or a terminal run. It is not safe for concurrent use.
//
// The zero value is uninitialized: every operation fails with domain.ErrUninitialized.
type Questionnaire struct {
	engine *Engine
	state  *domain.State
}

// Initialize builds an engine over questions and starts an anonymous session.
func Initialize(questions []domain.Question, opts ...Option) (*Questionnaire, error) {
	ctx := context.Background()
	if questions == nil {
		questions = []domain.Question{}
	}
	opts = append(opts, WithQuestions(questions))
	eng, err := New(ctx, "", opts...)
	if err != nil {
		return nil, err
	}
	return eng.NewQuestionnaire(ctx, "")
}

// NewQuestionnaire starts a fresh session on the engine.
func (e *Engine) NewQuestionnaire(ctx context.Context, sessionID string) (*Questionnaire, error) {
	state, err := e.Start(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &Questionnaire{engine: e, state: state}, nil
}

// Resume continues a session from a stored state.
func (e *Engine) Resume(state *domain.State) (*Questionnaire, error) {
	refreshed, err := e.Refresh(state)
	if err != nil {
		return nil, err
	}
	return &Questionnaire{engine: e, state: refreshed}, nil
}

func (q *Questionnaire) ready() error {
	if q == nil || q.engine == nil || q.state == nil {
		return domain.ErrUninitialized
	}
	return nil
}

// RecordAnswer stores the answer for questionID.
// On error the questionnaire is left unchanged.
func (q *Questionnaire) RecordAnswer(ctx context.Context, questionID string, answer domain.Answer) error {
	if err := q.ready(); err != nil {
		return err
	}
	next, err := q.engine.Record(ctx, q.state, questionID, answer)
	if err != nil {
		return err
	}
	q.state = next
	return nil
}

// Select adds value to a choice question's answer.
func (q *Questionnaire) Select(ctx context.Context, questionID, value string) error {
	if err := q.ready(); err != nil {
		return err
	}
	next, err := q.engine.Select(ctx, q.state, questionID, value)
	if err != nil {
		return err
	}
	q.state = next
	return nil
}

// Deselect removes value from a choice question's answer.
func (q *Questionnaire) Deselect(ctx context.Context, questionID, value string) error {
	if err := q.ready(); err != nil {
		return err
	}
	next, err := q.engine.Deselect(ctx, q.state, questionID, value)
	if err != nil {
		return err
	}
	q.state = next
	return nil
}

// Visible returns the currently visible questions in definition order.
func (q *Questionnaire) Visible() []domain.Question {
	if q.ready() != nil {
		return nil
	}
	return q.engine.Visible(q.state)
}

// IsComplete reports whether every visible required question is answered.
func (q *Questionnaire) IsComplete() bool {
	if q.ready() != nil {
		return false
	}
	return q.engine.IsComplete(q.state)
}

// ProgressFraction returns the share of visible questions answered, in [0,1].
func (q *Questionnaire) ProgressFraction() float64 {
	if q.ready() != nil {
		return 0
	}
	return q.engine.Progress(q.state)
}

// Submit freezes the answers and returns them.
// Later RecordAnswer and Submit calls fail with domain.ErrAlreadySubmitted.
func (q *Questionnaire) Submit(ctx context.Context) (domain.Payload, error) {
	if err := q.ready(); err != nil {
		return nil, err
	}
	next, payload, err := q.engine.Submit(ctx, q.state)
	if err != nil {
		return nil, err
	}
	q.state = next
	return payload, nil
}

// Next returns the nearest visible question after fromID ("" for the first one).
func (q *Questionnaire) Next(fromID string) (domain.Question, bool, error) {
	if err := q.ready(); err != nil {
		return domain.Question{}, false, err
	}
	return q.engine.Next(q.state, fromID)
}

// Previous returns the nearest visible question before fromID.
func (q *Questionnaire) Previous(fromID string) (domain.Question, bool, error) {
	if err := q.ready(); err != nil {
		return domain.Question{}, false, err
	}
	return q.engine.Previous(q.state, fromID)
}

// CanProceed reports whether a step-by-step flow may leave questionID.
func (q *Questionnaire) CanProceed(questionID string) (bool, error) {
	if err := q.ready(); err != nil {
		return false, err
	}
	return q.engine.CanProceed(q.state, questionID)
}

// View returns the render snapshot.
func (q *Questionnaire) View() (*domain.View, error) {
	if err := q.ready(); err != nil {
		return nil, err
	}
	return q.engine.View(q.state)
}

// State returns a copy of the current state, suitable for persisting.
func (q *Questionnaire) State() *domain.State {
	if q.ready() != nil {
		return nil
	}
	return q.state.Clone()
}
