package dsl

import "github.com/aretw0/intake/pkg/domain"

// QuestionBuilder provides a fluent API for configuring a question.
// New questions are required free-text questions titled with their ID.
type QuestionBuilder struct {
	question domain.Question
	// when accumulates ShowWhen requirements into a single rule.
	when []domain.Requirement
}

// Title sets the question text.
func (q *QuestionBuilder) Title(title string) *QuestionBuilder {
	q.question.Title = title
	return q
}

// Description sets the raw markup shown under the title.
func (q *QuestionBuilder) Description(markup string) *QuestionBuilder {
	q.question.Description = markup
	return q
}

// Placeholder sets the hint of a free-text question.
func (q *QuestionBuilder) Placeholder(text string) *QuestionBuilder {
	q.question.Placeholder = text
	return q
}

// FreeText makes the question a free-text question.
func (q *QuestionBuilder) FreeText() *QuestionBuilder {
	q.question.Kind = domain.KindFreeText
	q.question.Options = nil
	return q
}

// SingleChoice makes the question a single-choice question over values.
// Each value is also its label; use Option to set a different label.
func (q *QuestionBuilder) SingleChoice(values ...string) *QuestionBuilder {
	q.question.Kind = domain.KindSingleChoice
	return q.options(values)
}

// MultiChoice makes the question a multi-choice question over values.
func (q *QuestionBuilder) MultiChoice(values ...string) *QuestionBuilder {
	q.question.Kind = domain.KindMultiChoice
	return q.options(values)
}

func (q *QuestionBuilder) options(values []string) *QuestionBuilder {
	for _, v := range values {
		q.Option(v, v)
	}
	return q
}

// Option adds an option, or relabels it if value already exists.
func (q *QuestionBuilder) Option(value, label string) *QuestionBuilder {
	for i := range q.question.Options {
		if q.question.Options[i].Value == value {
			q.question.Options[i].Label = label
			return q
		}
	}
	q.question.Options = append(q.question.Options, domain.Option{Value: value, Label: label})
	return q
}

// Exclusive marks the option with the given value as clearing every other selection.
func (q *QuestionBuilder) Exclusive(value string) *QuestionBuilder {
	for i := range q.question.Options {
		if q.question.Options[i].Value == value {
			q.question.Options[i].Exclusive = true
		}
	}
	return q
}

// Optional lets the form complete without an answer to this question.
func (q *QuestionBuilder) Optional() *QuestionBuilder {
	q.question.Optional = true
	return q
}

// ShowWhen shows the question only when questionID's answer holds value.
// Repeated calls must all hold.
func (q *QuestionBuilder) ShowWhen(questionID, value string) *QuestionBuilder {
	q.when = append(q.when, domain.Requirement{QuestionID: questionID, Value: value})
	return q
}

// Rule adds a named rule made of the given requirements.
func (q *QuestionBuilder) Rule(id string, reqs ...domain.Requirement) *QuestionBuilder {
	q.question.Rules = append(q.question.Rules, domain.Rule{
		ID:           id,
		Requirements: append([]domain.Requirement(nil), reqs...),
	})
	return q
}

// Build returns the underlying domain.Question.
// This is primarily used by the Builder, but exposed for advanced usage.
func (q *QuestionBuilder) Build() domain.Question {
	out := q.question
	out.Options = append([]domain.Option(nil), q.question.Options...)
	out.Rules = append([]domain.Rule(nil), q.question.Rules...)
	if len(q.when) > 0 {
		out.Rules = append(out.Rules, domain.Rule{Requirements: append([]domain.Requirement(nil), q.when...)})
	}
	return out
}
