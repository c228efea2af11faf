package runtime

import "github.com/aretw0/intake/pkg/domain"

// Visible returns the currently visible definitions for state, in definition order.
func (e *Engine) Visible(state *domain.State) []domain.Question {
	if state == nil {
		return nil
	}
	return ComputeVisible(e.questions, state.Answers)
}

// IsComplete reports whether every visible required question has a non-empty answer.
func (e *Engine) IsComplete(state *domain.State) bool {
	if state == nil {
		return false
	}
	return completeAmong(e.Visible(state), state.Answers)
}

// Missing lists visible required questions without a usable answer, in definition order.
func (e *Engine) Missing(state *domain.State) []string {
	var missing []string
	for _, q := range e.Visible(state) {
		if !q.Optional && !state.Answers.Answered(q.ID) {
			missing = append(missing, q.ID)
		}
	}
	return missing
}

// Progress is the share of visible questions that are answered, in [0,1].
// Optional questions count once answered. It is 0 when nothing is visible.
func (e *Engine) Progress(state *domain.State) float64 {
	visible := e.Visible(state)
	if len(visible) == 0 {
		return 0
	}
	answered := 0
	for _, q := range visible {
		if state.Answers.Answered(q.ID) {
			answered++
		}
	}
	return float64(answered) / float64(len(visible))
}

// Next returns the first visible question after fromID in definition order.
// An empty fromID yields the first visible question.
func (e *Engine) Next(state *domain.State, fromID string) (domain.Question, bool, error) {
	start := 0
	if fromID != "" {
		i, ok := e.index[fromID]
		if !ok {
			return domain.Question{}, false, &domain.UnknownQuestionError{QuestionID: fromID}
		}
		start = i + 1
	}
	if state == nil {
		return domain.Question{}, false, domain.ErrUninitialized
	}
	for i := start; i < len(e.questions); i++ {
		if IsVisible(e.questions[i], state.Answers) {
			return e.questions[i], true, nil
		}
	}
	return domain.Question{}, false, nil
}

// Previous returns the nearest visible question before fromID in definition order.
func (e *Engine) Previous(state *domain.State, fromID string) (domain.Question, bool, error) {
	i, ok := e.index[fromID]
	if !ok {
		return domain.Question{}, false, &domain.UnknownQuestionError{QuestionID: fromID}
	}
	if state == nil {
		return domain.Question{}, false, domain.ErrUninitialized
	}
	for j := i - 1; j >= 0; j-- {
		if IsVisible(e.questions[j], state.Answers) {
			return e.questions[j], true, nil
		}
	}
	return domain.Question{}, false, nil
}

// CanProceed reports whether a step-by-step flow may move past questionID:
// the question is optional or holds a non-empty answer.
func (e *Engine) CanProceed(state *domain.State, questionID string) (bool, error) {
	q, ok := e.Question(questionID)
	if !ok {
		return false, &domain.UnknownQuestionError{QuestionID: questionID}
	}
	if state == nil {
		return false, domain.ErrUninitialized
	}
	return q.Optional || state.Answers.Answered(q.ID), nil
}
