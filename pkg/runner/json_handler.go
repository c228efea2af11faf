package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/aretw0/intake/pkg/domain"
)

// Message is one line written by the JSONHandler.
type Message struct {
	Type    string         `json:"type"` // "question", "system" or "summary"
	Prompt  *Prompt        `json:"prompt,omitempty"`
	Message string         `json:"message,omitempty"`
	Payload domain.Payload `json:"payload,omitempty"`
}

// JSONHandler implements IOHandler over JSON lines, for driving the runner from another program.
// Each input line is either a JSON string, a JSON array of strings (joined with commas) or raw text.
type JSONHandler struct {
	Reader  *bufio.Reader
	Encoder *json.Encoder
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		Reader:  bufio.NewReader(r),
		Encoder: json.NewEncoder(w),
	}
}

// Output emits the prompt as a single JSON line.
func (h *JSONHandler) Output(ctx context.Context, p Prompt) error {
	return h.Encoder.Encode(Message{Type: "question", Prompt: &p})
}

// Input reads one line.
func (h *JSONHandler) Input(ctx context.Context) (string, error) {
	text, err := h.Reader.ReadString('\n')
	if err != nil && (err != io.EOF || text == "") {
		return "", err
	}
	text = strings.TrimSpace(text)

	var val string
	if err := json.Unmarshal([]byte(text), &val); err == nil {
		return SanitizeInput(val)
	}
	var vals []string
	if err := json.Unmarshal([]byte(text), &vals); err == nil {
		return SanitizeInput(strings.Join(vals, ","))
	}
	return SanitizeInput(text)
}

// SystemOutput emits a system message line.
func (h *JSONHandler) SystemOutput(ctx context.Context, msg string) error {
	return h.Encoder.Encode(Message{Type: "system", Message: msg})
}

// Summary emits the submitted payload.
func (h *JSONHandler) Summary(ctx context.Context, questions []domain.Question, payload domain.Payload) error {
	return h.Encoder.Encode(Message{Type: "summary", Payload: payload})
}
