package runtime

import "github.com/aretw0/intake/pkg/domain"

// ComputeVisible returns the questions whose rules all hold for answers, in definition order.
//
// A requirement only looks at the stored answer of the question it names, never at
// that question's visibility, so a single pass is enough even when rules form a cycle.
func ComputeVisible(questions []domain.Question, answers domain.AnswerSet) []domain.Question {
	visible := make([]domain.Question, 0, len(questions))
	for _, q := range questions {
		if IsVisible(q, answers) {
			visible = append(visible, q)
		}
	}
	return visible
}

// IsVisible reports whether every rule of q is satisfied by answers.
func IsVisible(q domain.Question, answers domain.AnswerSet) bool {
	for _, rule := range q.Rules {
		if !ruleHolds(rule, answers) {
			return false
		}
	}
	return true
}

func ruleHolds(rule domain.Rule, answers domain.AnswerSet) bool {
	for _, req := range rule.Requirements {
		a, ok := answers[req.QuestionID]
		if !ok || !a.Satisfies(req.Value) {
			return false
		}
	}
	return true
}

// completeAmong reports whether every required question in visible has a non-empty answer.
func completeAmong(visible []domain.Question, answers domain.AnswerSet) bool {
	for _, q := range visible {
		if !q.Optional && !answers.Answered(q.ID) {
			return false
		}
	}
	return true
}
