package partner

import (
	"log/slog"
	"sort"

	"github.com/aretw0/intake/pkg/domain"
)

// Convert maps backend questions to domain questions ordered by their order field.
// File uploads are outside the engine and are skipped with a warning.
// The backend's isVisible flag is ignored: visibility comes from the rules alone.
func Convert(questions []Question, logger *slog.Logger) []domain.Question {
	sorted := make([]Question, len(questions))
	copy(sorted, questions)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Order < sorted[j].Order })

	out := make([]domain.Question, 0, len(sorted))
	for _, pq := range sorted {
		kind, ok := kindOf(pq.Type)
		if !ok {
			logger.Warn("skipping unsupported question", "question_id", pq.ID, "type", pq.Type)
			continue
		}

		q := domain.Question{
			ID:          pq.ID,
			Title:       pq.Title,
			Description: deref(pq.Description),
			Placeholder: deref(pq.Placeholder),
			Kind:        kind,
			Order:       pq.Order,
			Optional:    pq.IsOptional,
		}
		if q.Title == "" {
			q.Title = deref(pq.Label)
		}

		if kind.IsChoice() {
			q.Options = convertOptions(pq.Options)
		}

		for _, r := range pq.Rules {
			rule := domain.Rule{ID: r.ID}
			for _, req := range r.Requirements {
				rule.Requirements = append(rule.Requirements, domain.Requirement{
					QuestionID: req.RequiredQuestionID,
					Value:      req.RequiredAnswer,
				})
			}
			q.Rules = append(q.Rules, rule)
		}

		out = append(out, q)
	}
	return out
}

func convertOptions(opts []Option) []domain.Option {
	sorted := make([]Option, len(opts))
	copy(sorted, opts)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Order < sorted[j].Order })

	out := make([]domain.Option, 0, len(sorted))
	for _, o := range sorted {
		value := o.Option
		if value == "" {
			value = o.Title
		}
		label := o.Title
		if label == "" {
			label = value
		}
		out = append(out, domain.Option{ID: o.ID, Value: value, Label: label})
	}
	return out
}

func kindOf(t string) (domain.Kind, bool) {
	switch t {
	case TypeSingleOption:
		return domain.KindSingleChoice, true
	case TypeMultipleOption:
		return domain.KindMultiChoice, true
	case TypeText, TypeString:
		return domain.KindFreeText, true
	}
	return "", false
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
