package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Answer is the value recorded for a question.
// It is either a scalar string (single-choice, free-text) or an ordered,
// duplicate-free sequence of strings (multi-choice). Answers are immutable.
type Answer struct {
	scalar string
	values []string
	multi  bool
}

// Scalar builds a single-value answer.
func Scalar(v string) Answer {
	return Answer{scalar: v}
}

// Multi builds a multi-value answer. Duplicates are dropped, keeping first occurrence order.
func Multi(values ...string) Answer {
	out := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return Answer{values: out, multi: true}
}

// IsMulti reports whether the answer is a multi-value selection.
func (a Answer) IsMulti() bool { return a.multi }

// Value returns the scalar value ("" for multi-value answers).
func (a Answer) Value() string { return a.scalar }

// Values returns a copy of the selections (nil for scalar answers).
func (a Answer) Values() []string {
	if !a.multi {
		return nil
	}
	out := make([]string, len(a.values))
	copy(out, a.values)
	return out
}

// Len returns the number of selections, or 1 for a scalar.
func (a Answer) Len() int {
	if a.multi {
		return len(a.values)
	}
	return 1
}

// IsEmpty reports whether the answer carries no usable content.
// Blank scalars count as empty.
func (a Answer) IsEmpty() bool {
	if a.multi {
		return len(a.values) == 0
	}
	return strings.TrimSpace(a.scalar) == ""
}

// Contains reports whether v is one of the selections.
func (a Answer) Contains(v string) bool {
	for _, s := range a.values {
		if s == v {
			return true
		}
	}
	return false
}

// Satisfies implements the requirement comparison: scalar equality or set membership.
func (a Answer) Satisfies(required string) bool {
	if a.multi {
		return a.Contains(required)
	}
	return a.scalar == required
}

// Equal reports whether two answers hold the same shape and values (order sensitive).
func (a Answer) Equal(b Answer) bool {
	if a.multi != b.multi {
		return false
	}
	if !a.multi {
		return a.scalar == b.scalar
	}
	if len(a.values) != len(b.values) {
		return false
	}
	for i := range a.values {
		if a.values[i] != b.values[i] {
			return false
		}
	}
	return true
}

func (a Answer) String() string {
	if a.multi {
		return "[" + strings.Join(a.values, ", ") + "]"
	}
	return a.scalar
}

// MarshalJSON encodes scalars as strings and selections as arrays.
func (a Answer) MarshalJSON() ([]byte, error) {
	if a.multi {
		if a.values == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(a.values)
	}
	return json.Marshal(a.scalar)
}

// UnmarshalJSON accepts either a JSON string or an array of strings.
func (a *Answer) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("empty answer")
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*a = Scalar(s)
		return nil
	case '[':
		var vs []string
		if err := json.Unmarshal(trimmed, &vs); err != nil {
			return fmt.Errorf("answer array must contain strings: %w", err)
		}
		*a = Multi(vs...)
		return nil
	default:
		return fmt.Errorf("answer must be a string or an array of strings, got %s", string(trimmed))
	}
}

// AnswerFromAny converts loosely typed input (decoded JSON, YAML, tool arguments)
// into an Answer: string → scalar, []string or []any of strings → multi.
func AnswerFromAny(v any) (Answer, error) {
	switch t := v.(type) {
	case string:
		return Scalar(t), nil
	case []string:
		return Multi(t...), nil
	case []any:
		vs := make([]string, 0, len(t))
		for i, item := range t {
			s, ok := item.(string)
			if !ok {
				return Answer{}, fmt.Errorf("element %d: expected string, got %T", i, item)
			}
			vs = append(vs, s)
		}
		return Multi(vs...), nil
	case Answer:
		return t, nil
	default:
		return Answer{}, fmt.Errorf("expected string or list of strings, got %T", v)
	}
}

// AnswerSet maps question IDs to their current answer.
type AnswerSet map[string]Answer

// Clone returns a shallow copy; Answers themselves are immutable.
func (s AnswerSet) Clone() AnswerSet {
	out := make(AnswerSet, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Answered reports whether id has a present, non-empty answer.
func (s AnswerSet) Answered(id string) bool {
	a, ok := s[id]
	return ok && !a.IsEmpty()
}

// Payload is the frozen answer map handed to order submission.
// Keys are question IDs, values encode as a string or an array of strings.
type Payload map[string]Answer

// Keys returns the question IDs present in the payload.
func (p Payload) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	return keys
}

// Map converts the payload into plain Go values (string or []string).
func (p Payload) Map() map[string]any {
	out := make(map[string]any, len(p))
	for k, a := range p {
		if a.IsMulti() {
			out[k] = a.Values()
		} else {
			out[k] = a.Value()
		}
	}
	return out
}
