package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig signals unusable question definitions. Fatal for the session.
	ErrConfig = errors.New("invalid questionnaire configuration")

	// ErrUnknownQuestion is returned when an answer references a question that was never loaded.
	ErrUnknownQuestion = errors.New("unknown question")

	// ErrInvalidAnswerShape is returned when an answer does not fit the question kind.
	ErrInvalidAnswerShape = errors.New("invalid answer shape")

	// ErrIncompleteForm is returned by submit while required visible questions are unanswered.
	ErrIncompleteForm = errors.New("questionnaire is incomplete")

	// ErrAlreadySubmitted guards the terminal state.
	ErrAlreadySubmitted = errors.New("questionnaire already submitted")

	// ErrUninitialized is returned by a questionnaire that was never initialized.
	ErrUninitialized = errors.New("questionnaire not initialized")

	// ErrSessionNotFound is returned when a session ID cannot be found in the store.
	ErrSessionNotFound = errors.New("session not found")

	// ErrQuestionnaireNotFound is returned by loaders when a reference resolves to nothing.
	ErrQuestionnaireNotFound = errors.New("questionnaire not found")
)

// ConfigError describes why a definition set was rejected.
type ConfigError struct {
	QuestionID string
	Reason     string
}

func (e *ConfigError) Error() string {
	if e.QuestionID == "" {
		return fmt.Sprintf("%v: %s", ErrConfig, e.Reason)
	}
	return fmt.Sprintf("%v: question %q: %s", ErrConfig, e.QuestionID, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrConfig }

// UnknownQuestionError names the missing question.
type UnknownQuestionError struct {
	QuestionID string
}

func (e *UnknownQuestionError) Error() string {
	return fmt.Sprintf("%v: %q", ErrUnknownQuestion, e.QuestionID)
}

func (e *UnknownQuestionError) Unwrap() error { return ErrUnknownQuestion }

// InvalidAnswerShapeError reports an answer that cannot be recorded for a question.
type InvalidAnswerShapeError struct {
	QuestionID string
	Kind       Kind
	Reason     string
}

func (e *InvalidAnswerShapeError) Error() string {
	return fmt.Sprintf("%v: question %q (%s): %s", ErrInvalidAnswerShape, e.QuestionID, e.Kind, e.Reason)
}

func (e *InvalidAnswerShapeError) Unwrap() error { return ErrInvalidAnswerShape }

// IncompleteFormError lists the visible required questions still unanswered.
type IncompleteFormError struct {
	Missing []string
}

func (e *IncompleteFormError) Error() string {
	return fmt.Sprintf("%v: missing answers for %v", ErrIncompleteForm, e.Missing)
}

func (e *IncompleteFormError) Unwrap() error { return ErrIncompleteForm }
