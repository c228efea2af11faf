package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventAnswer     EventType = "answer"
	EventVisibility EventType = "visibility"
	EventSubmit     EventType = "submit"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
}

// AnswerEvent is emitted after an answer has been stored.
type AnswerEvent struct {
	EventBase
	QuestionID string `json:"question_id"`
	Answer     Answer `json:"answer"`
	Changed    bool   `json:"changed"` // False when the same value was recorded again
}

// VisibilityEvent is emitted when an answer changes which questions are visible.
type VisibilityEvent struct {
	EventBase
	Shown  []string `json:"shown,omitempty"`
	Hidden []string `json:"hidden,omitempty"`

	// Initial is set on the event emitted when a session starts.
	Initial bool `json:"initial,omitempty"`
}

// SubmitEvent is emitted once, when the session transitions to submitted.
type SubmitEvent struct {
	EventBase
	AnswerCount int `json:"answer_count"`
}

// LifecycleHooks defines callbacks for engine observability.
// Hooks run synchronously inside the engine call that triggered them.
type LifecycleHooks struct {
	OnAnswer           func(context.Context, *AnswerEvent)
	OnVisibilityChange func(context.Context, *VisibilityEvent)
	OnSubmit           func(context.Context, *SubmitEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnAnswer: func(ctx context.Context, e *AnswerEvent) {
			if h.OnAnswer != nil {
				h.OnAnswer(ctx, e)
			}
			if other.OnAnswer != nil {
				other.OnAnswer(ctx, e)
			}
		},
		OnVisibilityChange: func(ctx context.Context, e *VisibilityEvent) {
			if h.OnVisibilityChange != nil {
				h.OnVisibilityChange(ctx, e)
			}
			if other.OnVisibilityChange != nil {
				other.OnVisibilityChange(ctx, e)
			}
		},
		OnSubmit: func(ctx context.Context, e *SubmitEvent) {
			if h.OnSubmit != nil {
				h.OnSubmit(ctx, e)
			}
			if other.OnSubmit != nil {
				other.OnSubmit(ctx, e)
			}
		},
	}
}
