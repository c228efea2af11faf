package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/intake/internal/logging"
	"github.com/aretw0/intake/pkg/domain"
)

// Engine is the questionnaire rule engine.
// It holds the immutable definitions and derives every state transition from them.
// Engine never stores session state: callers pass a *domain.State in and get a new one back.
type Engine struct {
	questions []domain.Question
	index     map[string]int

	logger      *slog.Logger
	hooks       domain.LifecycleHooks
	heuristic   bool
	pruneHidden bool
	now         func() time.Time
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the structured logger. A nil logger is ignored.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithExclusiveHeuristic flags "none of the above" style terminal options as exclusive
// for definitions that carry no explicit flag.
func WithExclusiveHeuristic() EngineOption {
	return func(e *Engine) {
		e.heuristic = true
	}
}

// WithHiddenAnswerPruning drops answers of hidden questions from the submitted payload.
func WithHiddenAnswerPruning() EngineOption {
	return func(e *Engine) {
		e.pruneHidden = true
	}
}

// WithClock overrides the time source used for State.UpdatedAt.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine validates the definitions and builds an engine over them.
// It returns a *domain.ConfigError when the definitions are unusable.
func NewEngine(questions []domain.Question, opts ...EngineOption) (*Engine, error) {
	e := &Engine{
		logger: logging.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.heuristic {
		questions = domain.InferExclusiveOptions(questions)
	}

	index, err := e.validateDefinitions(questions)
	if err != nil {
		return nil, err
	}

	e.questions = make([]domain.Question, len(questions))
	copy(e.questions, questions)
	e.index = index

	return e, nil
}

// Questions returns the definitions in definition order.
func (e *Engine) Questions() []domain.Question {
	out := make([]domain.Question, len(e.questions))
	copy(out, e.questions)
	return out
}

// Question looks up a definition by ID.
func (e *Engine) Question(id string) (domain.Question, bool) {
	i, ok := e.index[id]
	if !ok {
		return domain.Question{}, false
	}
	return e.questions[i], true
}

// Start creates the initial active state for a session.
func (e *Engine) Start(ctx context.Context, sessionID string) (*domain.State, error) {
	state := domain.NewState(sessionID)
	e.derive(state)
	state.UpdatedAt = e.now()

	e.logger.Debug("questionnaire started",
		"session_id", sessionID,
		"questions", len(e.questions),
		"visible", len(state.Visible))

	e.emitVisibility(ctx, state.SessionID, nil, state.Visible, true)
	return state, nil
}

// Refresh recomputes the derived fields of a state loaded from storage.
// Answers of questions that no longer exist are kept untouched.
func (e *Engine) Refresh(state *domain.State) (*domain.State, error) {
	if state == nil {
		return nil, domain.ErrUninitialized
	}
	next := state.Clone()
	if next.Answers == nil {
		next.Answers = make(domain.AnswerSet)
	}
	if next.Status == "" || next.Status == domain.StatusUninitialized {
		next.Status = domain.StatusActive
	}
	e.derive(next)
	return next, nil
}

// Record stores an answer for questionID and recomputes visibility and completeness.
// Recording an answer equal to the current one returns an unchanged state.
func (e *Engine) Record(ctx context.Context, state *domain.State, questionID string, answer domain.Answer) (*domain.State, error) {
	if err := e.checkActive(state); err != nil {
		return nil, err
	}

	q, ok := e.Question(questionID)
	if !ok {
		return nil, &domain.UnknownQuestionError{QuestionID: questionID}
	}
	if err := validateAnswer(q, answer); err != nil {
		return nil, err
	}

	if q.Kind == domain.KindMultiChoice {
		answer = applySelection(q, answer)
	}

	prev, had := state.Answers[questionID]
	if had && prev.Equal(answer) {
		e.emitAnswer(ctx, state.SessionID, questionID, answer, false)
		return state.Clone(), nil
	}

	next := state.Clone()
	next.Answers[questionID] = answer
	previousVisible := next.Visible
	e.derive(next)
	next.UpdatedAt = e.now()

	e.logger.Debug("answer recorded",
		"session_id", state.SessionID,
		"question_id", questionID,
		"answer", answer.String(),
		"complete", next.Complete)

	e.emitAnswer(ctx, next.SessionID, questionID, answer, true)
	e.emitVisibility(ctx, next.SessionID, previousVisible, next.Visible, false)

	return next, nil
}

// Select adds value to a choice question's answer.
// For single-choice questions it replaces the current answer.
func (e *Engine) Select(ctx context.Context, state *domain.State, questionID, value string) (*domain.State, error) {
	if err := e.checkActive(state); err != nil {
		return nil, err
	}
	q, ok := e.Question(questionID)
	if !ok {
		return nil, &domain.UnknownQuestionError{QuestionID: questionID}
	}

	switch q.Kind {
	case domain.KindSingleChoice:
		return e.Record(ctx, state, questionID, domain.Scalar(value))
	case domain.KindMultiChoice:
		current := state.Answers[questionID].Values()
		return e.Record(ctx, state, questionID, domain.Multi(append(current, value)...))
	default:
		return nil, &domain.InvalidAnswerShapeError{QuestionID: q.ID, Kind: q.Kind, Reason: "options can only be selected on choice questions"}
	}
}

// Deselect removes value from a choice question's answer.
// Deselecting a value that is not selected leaves the state unchanged.
// Deselecting the selected value of a single-choice question clears its answer.
func (e *Engine) Deselect(ctx context.Context, state *domain.State, questionID, value string) (*domain.State, error) {
	if err := e.checkActive(state); err != nil {
		return nil, err
	}
	q, ok := e.Question(questionID)
	if !ok {
		return nil, &domain.UnknownQuestionError{QuestionID: questionID}
	}

	current, had := state.Answers[questionID]
	switch q.Kind {
	case domain.KindSingleChoice:
		if !had || current.Value() != value {
			return state.Clone(), nil
		}
		return e.clear(ctx, state, questionID), nil
	case domain.KindMultiChoice:
		if !current.Contains(value) {
			return state.Clone(), nil
		}
		remaining := make([]string, 0, current.Len())
		for _, v := range current.Values() {
			if v != value {
				remaining = append(remaining, v)
			}
		}
		return e.Record(ctx, state, questionID, domain.Multi(remaining...))
	default:
		return nil, &domain.InvalidAnswerShapeError{QuestionID: q.ID, Kind: q.Kind, Reason: "options can only be deselected on choice questions"}
	}
}

// clear drops the answer to questionID and recomputes visibility and completeness.
func (e *Engine) clear(ctx context.Context, state *domain.State, questionID string) *domain.State {
	next := state.Clone()
	delete(next.Answers, questionID)
	previousVisible := next.Visible
	e.derive(next)
	next.UpdatedAt = e.now()

	e.logger.Debug("answer cleared",
		"session_id", state.SessionID,
		"question_id", questionID,
		"complete", next.Complete)

	e.emitAnswer(ctx, next.SessionID, questionID, domain.Answer{}, true)
	e.emitVisibility(ctx, next.SessionID, previousVisible, next.Visible, false)
	return next
}

// Submit freezes the session and returns a copy of the answers.
// It fails with *domain.IncompleteFormError while required visible questions are unanswered.
func (e *Engine) Submit(ctx context.Context, state *domain.State) (*domain.State, domain.Payload, error) {
	if err := e.checkActive(state); err != nil {
		return nil, nil, err
	}

	current, err := e.Refresh(state)
	if err != nil {
		return nil, nil, err
	}
	if missing := e.Missing(current); len(missing) > 0 {
		return nil, nil, &domain.IncompleteFormError{Missing: missing}
	}

	payload := make(domain.Payload, len(current.Answers))
	for id, a := range current.Answers {
		if e.pruneHidden && !current.IsVisible(id) {
			continue
		}
		payload[id] = a
	}

	current.Status = domain.StatusSubmitted
	current.UpdatedAt = e.now()

	e.logger.Info("questionnaire submitted",
		"session_id", current.SessionID,
		"answers", len(payload))

	if e.hooks.OnSubmit != nil {
		e.hooks.OnSubmit(ctx, &domain.SubmitEvent{
			EventBase:   e.eventBase(domain.EventSubmit, current.SessionID),
			AnswerCount: len(payload),
		})
	}

	return current, payload, nil
}

func (e *Engine) checkActive(state *domain.State) error {
	if state == nil {
		return domain.ErrUninitialized
	}
	switch state.Status {
	case domain.StatusSubmitted:
		return domain.ErrAlreadySubmitted
	case domain.StatusActive:
		return nil
	default:
		return fmt.Errorf("%w: status %q", domain.ErrUninitialized, state.Status)
	}
}

// derive recomputes Visible and Complete in place.
func (e *Engine) derive(state *domain.State) {
	visible := ComputeVisible(e.questions, state.Answers)
	ids := make([]string, len(visible))
	for i, q := range visible {
		ids[i] = q.ID
	}
	state.Visible = ids
	state.Complete = completeAmong(visible, state.Answers)
}

func (e *Engine) eventBase(t domain.EventType, sessionID string) domain.EventBase {
	return domain.EventBase{Timestamp: e.now(), Type: t, SessionID: sessionID}
}

func (e *Engine) emitAnswer(ctx context.Context, sessionID, questionID string, answer domain.Answer, changed bool) {
	if e.hooks.OnAnswer == nil {
		return
	}
	e.hooks.OnAnswer(ctx, &domain.AnswerEvent{
		EventBase:  e.eventBase(domain.EventAnswer, sessionID),
		QuestionID: questionID,
		Answer:     answer,
		Changed:    changed,
	})
}

func (e *Engine) emitVisibility(ctx context.Context, sessionID string, prev, next []string, initial bool) {
	shown, hidden := domain.VisibilityDelta(prev, next)
	if !initial && len(shown) == 0 && len(hidden) == 0 {
		return
	}
	e.logger.Debug("visibility changed", "session_id", sessionID, "shown", shown, "hidden", hidden)
	if e.hooks.OnVisibilityChange == nil {
		return
	}
	e.hooks.OnVisibilityChange(ctx, &domain.VisibilityEvent{
		EventBase: e.eventBase(domain.EventVisibility, sessionID),
		Shown:     shown,
		Hidden:    hidden,
		Initial:   initial,
	})
}
