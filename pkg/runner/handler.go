package runner

import (
	"context"

	"github.com/aretw0/intake/pkg/domain"
)

// Prompt describes the question being asked.
type Prompt struct {
	Question domain.Question `json:"question"`
	Answer   *domain.Answer  `json:"answer,omitempty"`
	Position int             `json:"position"` // 1-based index among the visible questions
	Total    int             `json:"total"`    // number of visible questions
	Progress float64         `json:"progress"`
}

// IOHandler defines the strategy for interacting with the user.
// This allows switching between Text (CLI/TUI) and JSON (Structured) modes.
type IOHandler interface {
	// Output presents a question.
	Output(ctx context.Context, prompt Prompt) error

	// Input reads a response from the user.
	Input(ctx context.Context) (string, error)

	// SystemOutput presents a meta-message (validation errors, status updates).
	SystemOutput(ctx context.Context, msg string) error

	// Summary presents the submitted answers.
	Summary(ctx context.Context, questions []domain.Question, payload domain.Payload) error
}
