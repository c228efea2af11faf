package runtime

import (
	"fmt"

	"github.com/aretw0/intake/pkg/domain"
)

// validateDefinitions rejects definition sets the engine cannot run and returns the ID index.
// Rules naming unknown questions are tolerated: they can never be satisfied, so the
// question stays hidden, which is logged as a warning.
func (e *Engine) validateDefinitions(questions []domain.Question) (map[string]int, error) {
	if len(questions) == 0 {
		return nil, &domain.ConfigError{Reason: "no questions defined"}
	}

	index := make(map[string]int, len(questions))
	for i, q := range questions {
		if q.ID == "" {
			return nil, &domain.ConfigError{Reason: fmt.Sprintf("question at position %d has an empty id", i)}
		}
		if _, dup := index[q.ID]; dup {
			return nil, &domain.ConfigError{QuestionID: q.ID, Reason: "duplicate question id"}
		}
		if !q.Kind.Valid() {
			return nil, &domain.ConfigError{QuestionID: q.ID, Reason: fmt.Sprintf("unknown kind %q", q.Kind)}
		}
		if err := validateOptions(q); err != nil {
			return nil, err
		}
		index[q.ID] = i
	}

	for _, q := range questions {
		for _, dep := range q.Dependencies() {
			if _, ok := index[dep]; !ok {
				e.logger.Warn("rule references unknown question; it will never be satisfied",
					"question_id", q.ID,
					"depends_on", dep)
			}
		}
	}

	return index, nil
}

func validateOptions(q domain.Question) error {
	if !q.Kind.IsChoice() {
		return nil
	}
	if len(q.Options) == 0 {
		return &domain.ConfigError{QuestionID: q.ID, Reason: "choice question has no options"}
	}
	seen := make(map[string]bool, len(q.Options))
	for _, o := range q.Options {
		if o.Value == "" {
			return &domain.ConfigError{QuestionID: q.ID, Reason: "option with empty value"}
		}
		if seen[o.Value] {
			return &domain.ConfigError{QuestionID: q.ID, Reason: fmt.Sprintf("duplicate option value %q", o.Value)}
		}
		seen[o.Value] = true
	}
	return nil
}

// validateAnswer checks that answer fits the kind of q.
// An empty scalar is always accepted for scalar kinds and clears the answer.
func validateAnswer(q domain.Question, answer domain.Answer) error {
	switch q.Kind {
	case domain.KindFreeText:
		if answer.IsMulti() {
			return &domain.InvalidAnswerShapeError{QuestionID: q.ID, Kind: q.Kind, Reason: "expected a single value"}
		}
	case domain.KindSingleChoice:
		if answer.IsMulti() {
			return &domain.InvalidAnswerShapeError{QuestionID: q.ID, Kind: q.Kind, Reason: "expected a single value"}
		}
		if answer.Value() == "" {
			return nil
		}
		if _, ok := q.Option(answer.Value()); !ok {
			return &domain.InvalidAnswerShapeError{QuestionID: q.ID, Kind: q.Kind, Reason: fmt.Sprintf("unknown option %q", answer.Value())}
		}
	case domain.KindMultiChoice:
		if !answer.IsMulti() {
			return &domain.InvalidAnswerShapeError{QuestionID: q.ID, Kind: q.Kind, Reason: "expected a list of values"}
		}
		for _, v := range answer.Values() {
			if _, ok := q.Option(v); !ok {
				return &domain.InvalidAnswerShapeError{QuestionID: q.ID, Kind: q.Kind, Reason: fmt.Sprintf("unknown option %q", v)}
			}
		}
	}
	return nil
}
