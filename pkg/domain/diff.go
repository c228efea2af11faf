package domain

// StateDiff represents the changes between two states.
// It is designed to be serialized to JSON for partial updates on the client.
type StateDiff struct {
	// SessionID is always present to identify the target.
	SessionID string `json:"session_id"`

	Status *Status `json:"status,omitempty"`

	// Answers contains only added or modified answers.
	// Answers are never deleted, so there is no tombstone encoding.
	Answers map[string]Answer `json:"answers,omitempty"`

	// Shown and Hidden list questions whose visibility flipped.
	Shown  []string `json:"shown,omitempty"`
	Hidden []string `json:"hidden,omitempty"`

	// Visible is the full ordered list whenever it changed, so clients can re-render.
	Visible []string `json:"visible,omitempty"`

	Complete *bool `json:"complete,omitempty"`
}

// Diff calculates the difference between oldState and newState.
// If oldState is nil, it returns a diff representing the entire newState (initial load).
// It returns nil when nothing changed.
func Diff(oldState, newState *State) *StateDiff {
	if newState == nil {
		return nil
	}

	diff := &StateDiff{
		SessionID: newState.SessionID,
	}

	if oldState == nil || oldState.Status != newState.Status {
		status := newState.Status
		diff.Status = &status
	}
	if oldState == nil || oldState.Complete != newState.Complete {
		complete := newState.Complete
		diff.Complete = &complete
	}

	diff.Answers = diffAnswers(oldState, newState)

	var oldVisible []string
	if oldState != nil {
		oldVisible = oldState.Visible
	}
	diff.Shown, diff.Hidden = VisibilityDelta(oldVisible, newState.Visible)
	if oldState == nil || len(diff.Shown) > 0 || len(diff.Hidden) > 0 {
		diff.Visible = append([]string{}, newState.Visible...)
	}

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

func diffAnswers(old *State, new *State) map[string]Answer {
	delta := make(map[string]Answer)

	for k, newVal := range new.Answers {
		if old == nil {
			delta[k] = newVal
			continue
		}
		oldVal, exists := old.Answers[k]
		if !exists || !oldVal.Equal(newVal) {
			delta[k] = newVal
		}
	}

	if len(delta) == 0 {
		return nil
	}
	return delta
}

// VisibilityDelta returns the IDs present only in next (shown) and only in prev (hidden),
// each in the order of the list they come from.
func VisibilityDelta(prev, next []string) (shown, hidden []string) {
	before := make(map[string]bool, len(prev))
	for _, id := range prev {
		before[id] = true
	}
	after := make(map[string]bool, len(next))
	for _, id := range next {
		after[id] = true
		if !before[id] {
			shown = append(shown, id)
		}
	}
	for _, id := range prev {
		if !after[id] {
			hidden = append(hidden, id)
		}
	}
	return shown, hidden
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *StateDiff) IsEmpty() bool {
	return d.Status == nil &&
		d.Complete == nil &&
		len(d.Answers) == 0 &&
		len(d.Shown) == 0 &&
		len(d.Hidden) == 0 &&
		len(d.Visible) == 0
}
