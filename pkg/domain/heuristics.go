package domain

import "strings"

var noneOfTheAbove = []string{
	"none of the above",
	"none of these",
	"none",
}

// InferExclusiveOptions returns a copy of questions where the terminal option of
// each multi-choice question is flagged Exclusive when its value or label reads
// like "none of the above". Explicit flags are never cleared.
//
// Legacy partner data carries no exclusivity flag, so this is opt-in.
func InferExclusiveOptions(questions []Question) []Question {
	out := make([]Question, len(questions))
	for i, q := range questions {
		out[i] = q
		if q.Kind != KindMultiChoice || len(q.Options) == 0 {
			continue
		}
		last := q.Options[len(q.Options)-1]
		if last.Exclusive || !(looksLikeNone(last.Value) || looksLikeNone(last.Label)) {
			continue
		}
		opts := make([]Option, len(q.Options))
		copy(opts, q.Options)
		opts[len(opts)-1].Exclusive = true
		out[i].Options = opts
	}
	return out
}

func looksLikeNone(s string) bool {
	clean := strings.ToLower(strings.TrimSpace(s))
	clean = strings.TrimRight(clean, ".!")
	for _, candidate := range noneOfTheAbove {
		if clean == candidate {
			return true
		}
	}
	return false
}
