package runtime

import "github.com/aretw0/intake/pkg/domain"

// applySelection resolves a requested multi-choice set into the stored answer.
//
// Values are applied in list order as selections: an exclusive option replaces
// everything before it, any other option evicts exclusive ones. The result only
// depends on the requested list, so recording the same set twice is a no-op.
func applySelection(q domain.Question, requested domain.Answer) domain.Answer {
	var result []string
	for _, v := range requested.Values() {
		if q.IsExclusive(v) {
			result = []string{v}
			continue
		}
		kept := result[:0]
		for _, r := range result {
			if !q.IsExclusive(r) {
				kept = append(kept, r)
			}
		}
		result = append(kept, v)
	}
	return domain.Multi(result...)
}
