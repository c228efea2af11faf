package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/aretw0/intake/pkg/domain"
)

// Loader implements ports.DefinitionLoader over questionnaires held in memory.
type Loader struct {
	questionnaires map[string][]domain.Question
}

// NewLoader creates a Loader keyed by questionnaire reference.
func NewLoader(data map[string][]domain.Question) *Loader {
	questionnaires := make(map[string][]domain.Question, len(data))
	for ref, qs := range data {
		questionnaires[ref] = copyQuestions(qs)
	}
	return &Loader{questionnaires: questionnaires}
}

// NewFromQuestions creates a Loader serving one questionnaire for every reference.
// This is the common case in tests and embedded scenarios.
func NewFromQuestions(questions ...domain.Question) *Loader {
	return &Loader{questionnaires: map[string][]domain.Question{"": copyQuestions(questions)}}
}

// Load returns a copy of the questionnaire registered under ref.
func (l *Loader) Load(ctx context.Context, ref string) ([]domain.Question, error) {
	qs, ok := l.questionnaires[ref]
	if !ok {
		qs, ok = l.questionnaires[""]
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrQuestionnaireNotFound, ref)
	}
	return copyQuestions(qs), nil
}

// Refs returns the registered references in sorted order.
func (l *Loader) Refs() []string {
	keys := make([]string, 0, len(l.questionnaires))
	for k := range l.questionnaires {
		keys = append(keys, k)
	}
	sort.Strings(keys) // Deterministic order
	return keys
}

func copyQuestions(qs []domain.Question) []domain.Question {
	out := make([]domain.Question, len(qs))
	copy(out, qs)
	return out
}
