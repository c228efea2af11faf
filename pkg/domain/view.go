package domain

// View is the read model a Render Layer draws from.
type View struct {
	SessionID string     `json:"session_id"`
	Status    Status     `json:"status"`
	Questions []Question `json:"questions"` // Visible only, in definition order
	Answers   AnswerSet  `json:"answers"`
	Complete  bool       `json:"complete"`
	Progress  float64    `json:"progress"`
	Missing   []string   `json:"missing,omitempty"`
}
