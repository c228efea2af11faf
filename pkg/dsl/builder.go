package dsl

import (
	"github.com/aretw0/intake/pkg/adapters/memory"
	"github.com/aretw0/intake/pkg/domain"
)

// Builder manages the questionnaire construction. Questions keep the order they were added in.
type Builder struct {
	order     []string
	questions map[string]*QuestionBuilder
}

// New creates a new questionnaire builder.
func New() *Builder {
	return &Builder{
		questions: make(map[string]*QuestionBuilder),
	}
}

// Add creates a new question in the questionnaire.
// If the question already exists, it returns the existing builder.
func (b *Builder) Add(id string) *QuestionBuilder {
	if qb, ok := b.questions[id]; ok {
		return qb
	}
	qb := &QuestionBuilder{
		question: domain.Question{
			ID:    id,
			Title: id,
			Kind:  domain.KindFreeText,
		},
	}
	b.questions[id] = qb
	b.order = append(b.order, id)
	return qb
}

// Questions returns the definitions in the order they were added.
func (b *Builder) Questions() []domain.Question {
	out := make([]domain.Question, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, b.questions[id].Build())
	}
	return out
}

// Build compiles the questionnaire into a memory loader serving it under every reference.
func (b *Builder) Build() (*memory.Loader, error) {
	if len(b.order) == 0 {
		return nil, &domain.ConfigError{Reason: "no questions defined"}
	}
	return memory.NewFromQuestions(b.Questions()...), nil
}
