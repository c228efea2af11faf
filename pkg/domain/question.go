package domain

// Kind defines how a question is answered.
type Kind string

const (
	// KindSingleChoice accepts exactly one option value (scalar answer).
	KindSingleChoice Kind = "single-choice"
	// KindMultiChoice accepts an ordered set of option values.
	KindMultiChoice Kind = "multi-choice"
	// KindFreeText accepts any string (scalar answer).
	KindFreeText Kind = "free-text"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindSingleChoice, KindMultiChoice, KindFreeText:
		return true
	}
	return false
}

// IsChoice reports whether answers must come from the option list.
func (k Kind) IsChoice() bool {
	return k == KindSingleChoice || k == KindMultiChoice
}

// Option is a selectable answer of a choice question.
type Option struct {
	ID    string `json:"id" yaml:"id"`
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`

	// Exclusive marks a "none of the above" style option: choosing it clears
	// every other selection, choosing anything else clears it.
	Exclusive bool `json:"exclusive,omitempty" yaml:"exclusive,omitempty"`
}

// Requirement is satisfied when the answer to QuestionID equals Value,
// or contains it when that answer is a multi-choice selection.
type Requirement struct {
	QuestionID string `json:"question_id" yaml:"question_id"`
	Value      string `json:"value" yaml:"value"`
}

// Rule is satisfied when every one of its requirements is satisfied.
type Rule struct {
	ID           string        `json:"id,omitempty" yaml:"id,omitempty"`
	Requirements []Requirement `json:"requirements" yaml:"requirements"`
}

// Question is an immutable question definition supplied once per session.
type Question struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"` // Raw markup, never interpreted by the engine
	Placeholder string `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Kind        Kind   `json:"kind" yaml:"kind"`
	Order       int    `json:"order,omitempty" yaml:"order,omitempty"`

	Options  []Option `json:"options,omitempty" yaml:"options,omitempty"`
	Optional bool     `json:"optional,omitempty" yaml:"optional,omitempty"`

	// Rules gate visibility: the question is shown iff every rule holds.
	// A question without rules is always visible.
	Rules []Rule `json:"rules,omitempty" yaml:"rules,omitempty"`
}

// Option returns the option with the given value, if any.
func (q Question) Option(value string) (Option, bool) {
	for _, o := range q.Options {
		if o.Value == value {
			return o, true
		}
	}
	return Option{}, false
}

// IsExclusive reports whether value names an exclusive option of q.
func (q Question) IsExclusive(value string) bool {
	o, ok := q.Option(value)
	return ok && o.Exclusive
}

// Unconditional reports whether the question has no visibility rules.
func (q Question) Unconditional() bool {
	return len(q.Rules) == 0
}

// Dependencies lists the question IDs referenced by q's rules, without duplicates.
func (q Question) Dependencies() []string {
	seen := make(map[string]bool)
	var deps []string
	for _, r := range q.Rules {
		for _, req := range r.Requirements {
			if !seen[req.QuestionID] {
				seen[req.QuestionID] = true
				deps = append(deps, req.QuestionID)
			}
		}
	}
	return deps
}
