package intake

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/aretw0/intake/internal/logging"
	"github.com/aretw0/intake/internal/runtime"
	loamAdapter "github.com/aretw0/intake/pkg/adapters/loam"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/ports"
	"github.com/aretw0/loam"
)

// Engine is the high-level entry point for the intake library.
// It loads the definitions once and wraps the internal runtime with a simplified API.
// Engine is stateless and safe for concurrent use: every call takes and returns a *domain.State.
type Engine struct {
	runtime     *runtime.Engine
	loader      ports.DefinitionLoader
	questions   []domain.Question
	hooks       domain.LifecycleHooks
	logger      *slog.Logger
	runtimeOpts []runtime.EngineOption
	Name        string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLoader injects a custom DefinitionLoader, bypassing the default Loam initialization.
func WithLoader(l ports.DefinitionLoader) Option {
	return func(e *Engine) {
		e.loader = l
	}
}

// WithQuestions supplies the definitions directly. No loader is consulted.
func WithQuestions(questions []domain.Question) Option {
	return func(e *Engine) {
		e.questions = questions
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithExclusiveHeuristic treats a terminal "none of the above" option of a multi-choice
// question as exclusive even when the definitions do not flag it.
func WithExclusiveHeuristic() Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithExclusiveHeuristic())
	}
}

// WithHiddenAnswerPruning leaves answers of hidden questions out of the submitted payload.
// By default every recorded answer is submitted.
func WithHiddenAnswerPruning() Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithHiddenAnswerPruning())
	}
}

// New loads the definitions referenced by ref and builds an Engine over them.
//
// By default ref is a directory holding a Loam repository with one document per question.
// With WithLoader, ref is passed to the loader as is. With WithQuestions, ref is only a label.
func New(ctx context.Context, ref string, opts ...Option) (*Engine, error) {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}

	if eng.questions == nil {
		if eng.loader == nil {
			loader, name, err := defaultLoader(ref)
			if err != nil {
				return nil, err
			}
			eng.loader = loader
			eng.Name = name
			ref = ""
		} else if ref != "" {
			eng.Name = filepath.Base(ref)
		}

		questions, err := eng.loader.Load(ctx, ref)
		if err != nil {
			return nil, fmt.Errorf("failed to load questionnaire: %w", err)
		}
		eng.questions = questions
	}

	if eng.Name != "" {
		eng.logger = eng.logger.With("questionnaire", eng.Name)
	}

	runtimeOpts := []runtime.EngineOption{
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithLogger(eng.logger),
	}
	runtimeOpts = append(runtimeOpts, eng.runtimeOpts...)

	rt, err := runtime.NewEngine(eng.questions, runtimeOpts...)
	if err != nil {
		return nil, err
	}
	eng.runtime = rt

	return eng, nil
}

func defaultLoader(repoPath string) (ports.DefinitionLoader, string, error) {
	if repoPath == "" {
		return nil, "", fmt.Errorf("repoPath is required when no custom loader or questions are provided")
	}

	absPath, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, "", fmt.Errorf("invalid path: %w", err)
	}

	// The engine never writes definitions, so the repository is opened read-only.
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to initialize loam: %w", err)
	}

	typedRepo := loam.NewTypedRepository[loamAdapter.QuestionMetadata](repo)
	return loamAdapter.New(typedRepo), filepath.Base(absPath), nil
}

// Questions returns the loaded definitions in definition order.
func (e *Engine) Questions() []domain.Question {
	return e.runtime.Questions()
}

// Start creates the initial state for a session.
func (e *Engine) Start(ctx context.Context, sessionID string) (*domain.State, error) {
	return e.runtime.Start(ctx, sessionID)
}

// Refresh recomputes derived fields of a state loaded from storage.
func (e *Engine) Refresh(state *domain.State) (*domain.State, error) {
	return e.runtime.Refresh(state)
}

// Record stores an answer and returns the next state.
func (e *Engine) Record(ctx context.Context, state *domain.State, questionID string, answer domain.Answer) (*domain.State, error) {
	return e.runtime.Record(ctx, state, questionID, answer)
}

// Select adds an option to a choice question's answer.
func (e *Engine) Select(ctx context.Context, state *domain.State, questionID, value string) (*domain.State, error) {
	return e.runtime.Select(ctx, state, questionID, value)
}

// Deselect removes an option from a choice question's answer.
func (e *Engine) Deselect(ctx context.Context, state *domain.State, questionID, value string) (*domain.State, error) {
	return e.runtime.Deselect(ctx, state, questionID, value)
}

// Submit freezes the session and returns the answer payload.
func (e *Engine) Submit(ctx context.Context, state *domain.State) (*domain.State, domain.Payload, error) {
	return e.runtime.Submit(ctx, state)
}

// Visible returns the visible definitions for state.
func (e *Engine) Visible(state *domain.State) []domain.Question {
	return e.runtime.Visible(state)
}

// IsComplete reports whether every visible required question is answered.
func (e *Engine) IsComplete(state *domain.State) bool {
	return e.runtime.IsComplete(state)
}

// Progress returns the share of visible questions answered.
func (e *Engine) Progress(state *domain.State) float64 {
	return e.runtime.Progress(state)
}

// Next returns the nearest visible question after fromID ("" for the first one).
func (e *Engine) Next(state *domain.State, fromID string) (domain.Question, bool, error) {
	return e.runtime.Next(state, fromID)
}

// Previous returns the nearest visible question before fromID.
func (e *Engine) Previous(state *domain.State, fromID string) (domain.Question, bool, error) {
	return e.runtime.Previous(state, fromID)
}

// CanProceed reports whether a step-by-step flow may leave questionID.
func (e *Engine) CanProceed(state *domain.State, questionID string) (bool, error) {
	return e.runtime.CanProceed(state, questionID)
}

// View builds the render snapshot for state.
func (e *Engine) View(state *domain.State) (*domain.View, error) {
	return e.runtime.View(state)
}

// Loader returns the DefinitionLoader the definitions came from, if any.
func (e *Engine) Loader() ports.DefinitionLoader {
	return e.loader
}
