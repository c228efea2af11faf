package runtime

import "github.com/aretw0/intake/pkg/domain"

// View builds the render snapshot for state.
func (e *Engine) View(state *domain.State) (*domain.View, error) {
	if state == nil {
		return nil, domain.ErrUninitialized
	}
	visible := e.Visible(state)
	return &domain.View{
		SessionID: state.SessionID,
		Status:    state.Status,
		Questions: visible,
		Answers:   state.Answers.Clone(),
		Complete:  completeAmong(visible, state.Answers),
		Progress:  e.Progress(state),
		Missing:   e.Missing(state),
	}, nil
}
