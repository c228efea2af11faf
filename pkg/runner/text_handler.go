package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/intake/pkg/domain"
)

// ContentRenderer transforms question descriptions before output
// (for example markdown to ANSI) without coupling this package to a renderer.
type ContentRenderer func(string) (string, error)

// TextHandler implements the standard text-based interface.
type TextHandler struct {
	Reader   *bufio.Reader
	Writer   io.Writer
	Renderer ContentRenderer

	inputChan chan inputResult
	startOnce sync.Once
}

type inputResult struct {
	text string
	err  error
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer configures the content renderer.
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// NewTextHandler creates a handler for standard text IO.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		Reader: bufio.NewReader(r),
		Writer: w,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *TextHandler) initPump() {
	h.startOnce.Do(func() {
		h.inputChan = make(chan inputResult)
		go h.pump()
	})
}

// pump reads lines in the background so Input can honor context cancellation.
func (h *TextHandler) pump() {
	for {
		text, err := h.Reader.ReadString('\n')

		if text != "" {
			h.inputChan <- inputResult{text: text}
		}

		if err != nil {
			if err == io.EOF {
				close(h.inputChan)
				return
			}
			h.inputChan <- inputResult{err: err}
			// Backoff so a persistent read failure does not spin.
			time.Sleep(50 * time.Millisecond)
		}
	}
}

// Output prints the question, its options and the current answer.
func (h *TextHandler) Output(ctx context.Context, p Prompt) error {
	q := p.Question
	fmt.Fprintf(h.Writer, "\n[%d/%d] %s", p.Position, p.Total, q.Title)
	if q.Optional {
		fmt.Fprint(h.Writer, " (optional)")
	}
	fmt.Fprintln(h.Writer)

	if q.Description != "" {
		desc := q.Description
		if h.Renderer != nil {
			if rendered, err := h.Renderer(desc); err == nil {
				desc = rendered
			}
		}
		fmt.Fprintln(h.Writer, strings.TrimSpace(desc))
	}

	switch q.Kind {
	case domain.KindSingleChoice, domain.KindMultiChoice:
		for i, o := range q.Options {
			mark := " "
			if p.Answer != nil && (p.Answer.Value() == o.Value || p.Answer.Contains(o.Value)) {
				mark = "x"
			}
			fmt.Fprintf(h.Writer, "  %d) [%s] %s\n", i+1, mark, optionLabel(o))
		}
		if q.Kind == domain.KindMultiChoice {
			fmt.Fprintln(h.Writer, "  (comma separated, e.g. 1,3)")
		}
	case domain.KindFreeText:
		if q.Placeholder != "" {
			fmt.Fprintf(h.Writer, "  (%s)\n", q.Placeholder)
		}
		if p.Answer != nil && !p.Answer.IsEmpty() {
			fmt.Fprintf(h.Writer, "  current: %s\n", p.Answer.Value())
		}
	}
	return nil
}

// Input reads one sanitized line. Invalid input is reported and read again.
func (h *TextHandler) Input(ctx context.Context) (string, error) {
	h.initPump()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
			fmt.Fprint(h.Writer, "> ")
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case res, ok := <-h.inputChan:
			if !ok {
				return "", io.EOF
			}
			if res.err != nil {
				return "", res.err
			}

			clean, err := SanitizeInput(strings.TrimSpace(res.text))
			if err != nil {
				fmt.Fprintf(h.Writer, "Error: %v. Please try again.\n", err)
				continue
			}
			return clean, nil
		}
	}
}

// SystemOutput prints a meta-message.
func (h *TextHandler) SystemOutput(ctx context.Context, msg string) error {
	fmt.Fprintf(h.Writer, "[System] %s\n", msg)
	return nil
}

// Summary prints the submitted answers in question order.
func (h *TextHandler) Summary(ctx context.Context, questions []domain.Question, payload domain.Payload) error {
	fmt.Fprintln(h.Writer, "\nSubmitted answers:")
	for _, q := range questions {
		a, ok := payload[q.ID]
		if !ok {
			continue
		}
		fmt.Fprintf(h.Writer, "  %s: %s\n", q.Title, displayAnswer(q, a))
	}
	return nil
}

func optionLabel(o domain.Option) string {
	if o.Label != "" {
		return o.Label
	}
	return o.Value
}

func displayAnswer(q domain.Question, a domain.Answer) string {
	if !a.IsMulti() {
		if o, ok := q.Option(a.Value()); ok {
			return optionLabel(o)
		}
		return a.Value()
	}
	labels := make([]string, 0, a.Len())
	for _, v := range a.Values() {
		if o, ok := q.Option(v); ok {
			labels = append(labels, optionLabel(o))
		} else {
			labels = append(labels, v)
		}
	}
	return strings.Join(labels, ", ")
}
