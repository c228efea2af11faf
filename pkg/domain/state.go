package domain

import "time"

// Status defines the lifecycle phase of a questionnaire session.
type Status string

const (
	StatusUninitialized Status = "uninitialized" // No definitions loaded yet
	StatusActive        Status = "active"        // Accepting answers
	StatusSubmitted     Status = "submitted"     // Terminal: answers frozen
)

// State represents the current snapshot of a questionnaire session.
type State struct {
	// SessionID identifies the session in stores and logs.
	SessionID string `json:"session_id"`

	// Status indicates whether the session accepts answers.
	Status Status `json:"status"`

	// Answers holds every answer recorded so far, including answers of
	// questions that are currently hidden.
	Answers AnswerSet `json:"answers"`

	// Visible lists the IDs of currently visible questions in definition order.
	// Derived: recomputed by the engine after every change.
	Visible []string `json:"visible"`

	// Complete is true when every visible required question is answered.
	// Derived: recomputed by the engine after every change.
	Complete bool `json:"complete"`

	UpdatedAt time.Time `json:"updated_at,omitempty"`

	// Sealed carries an opaque encrypted copy of the real state.
	// Only set on envelopes written by the encryption middleware.
	Sealed string `json:"sealed,omitempty"`
}

// NewState creates a clean active state for a session.
func NewState(sessionID string) *State {
	return &State{
		SessionID: sessionID,
		Status:    StatusActive,
		Answers:   make(AnswerSet),
		Visible:   []string{},
	}
}

// Clone returns a copy safe for mutation.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	next := *s
	next.Answers = s.Answers.Clone()
	next.Visible = append([]string(nil), s.Visible...)
	return &next
}

// IsVisible reports whether id is in the derived visible list.
func (s *State) IsVisible(id string) bool {
	for _, v := range s.Visible {
		if v == id {
			return true
		}
	}
	return false
}
