package dto

import (
	"sort"

	"github.com/aretw0/intake/pkg/domain"
)

// QuestionSpec is the on-disk shape of a question definition.
// It uses "mapstructure" tags so it can be decoded from YAML, JSON or Markdown frontmatter.
type QuestionSpec struct {
	ID          string `json:"id" yaml:"id" mapstructure:"id"`
	Title       string `json:"title" yaml:"title" mapstructure:"title"`
	Description string `json:"description" yaml:"description" mapstructure:"description"`
	Placeholder string `json:"placeholder" yaml:"placeholder" mapstructure:"placeholder"`
	Kind        string `json:"kind" yaml:"kind" mapstructure:"kind"`
	Order       int    `json:"order" yaml:"order" mapstructure:"order"`
	Optional    bool   `json:"optional" yaml:"optional" mapstructure:"optional"`

	Options []OptionSpec `json:"options" yaml:"options" mapstructure:"options"`
	Rules   []RuleSpec   `json:"rules" yaml:"rules" mapstructure:"rules"`

	// Requires is sugar for a single rule: every listed question must hold the given value.
	Requires map[string]string `json:"requires" yaml:"requires" mapstructure:"requires"`
}

// OptionSpec is an option of a choice question. Value defaults to Label, then ID.
type OptionSpec struct {
	ID        string `json:"id" yaml:"id" mapstructure:"id"`
	Value     string `json:"value" yaml:"value" mapstructure:"value"`
	Label     string `json:"label" yaml:"label" mapstructure:"label"`
	Exclusive bool   `json:"exclusive" yaml:"exclusive" mapstructure:"exclusive"`
}

// RuleSpec is a visibility rule.
type RuleSpec struct {
	ID           string            `json:"id" yaml:"id" mapstructure:"id"`
	Requirements []RequirementSpec `json:"requirements" yaml:"requirements" mapstructure:"requirements"`
}

// RequirementSpec names a question and the value its answer must hold.
type RequirementSpec struct {
	QuestionID string `json:"question_id" yaml:"question_id" mapstructure:"question_id"`
	Value      string `json:"value" yaml:"value" mapstructure:"value"`
}

// QuestionnaireSpec is a whole questionnaire in a single file.
type QuestionnaireSpec struct {
	ID        string         `json:"id" yaml:"id" mapstructure:"id"`
	Title     string         `json:"title" yaml:"title" mapstructure:"title"`
	Questions []QuestionSpec `json:"questions" yaml:"questions" mapstructure:"questions"`
}

// ToDomain converts the file entry into a definition. The kind is taken verbatim and validated by the engine.
func (s QuestionSpec) ToDomain() domain.Question {
	q := domain.Question{
		ID:          s.ID,
		Title:       s.Title,
		Description: s.Description,
		Placeholder: s.Placeholder,
		Kind:        domain.Kind(s.Kind),
		Order:       s.Order,
		Optional:    s.Optional,
	}

	for _, o := range s.Options {
		value := o.Value
		if value == "" {
			value = o.Label
		}
		if value == "" {
			value = o.ID
		}
		label := o.Label
		if label == "" {
			label = value
		}
		q.Options = append(q.Options, domain.Option{
			ID:        o.ID,
			Value:     value,
			Label:     label,
			Exclusive: o.Exclusive,
		})
	}

	for _, r := range s.Rules {
		rule := domain.Rule{ID: r.ID}
		for _, req := range r.Requirements {
			rule.Requirements = append(rule.Requirements, domain.Requirement{
				QuestionID: req.QuestionID,
				Value:      req.Value,
			})
		}
		q.Rules = append(q.Rules, rule)
	}

	if len(s.Requires) > 0 {
		keys := make([]string, 0, len(s.Requires))
		for k := range s.Requires {
			keys = append(keys, k)
		}
		sort.Strings(keys) // Deterministic order
		rule := domain.Rule{}
		for _, k := range keys {
			rule.Requirements = append(rule.Requirements, domain.Requirement{QuestionID: k, Value: s.Requires[k]})
		}
		q.Rules = append(q.Rules, rule)
	}

	return q
}

// SortByOrder orders questions by their Order field, keeping input order for ties.
func SortByOrder(questions []domain.Question) {
	sort.SliceStable(questions, func(i, j int) bool {
		return questions[i].Order < questions[j].Order
	})
}
