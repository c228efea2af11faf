package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/intake/pkg/domain"
)

// GraphOverlay contains session data to visualize on the graph.
type GraphOverlay struct {
	Visible  []string
	Answered []string
}

// OverlayFromState builds the overlay of a session.
func OverlayFromState(state *domain.State) *GraphOverlay {
	if state == nil {
		return nil
	}
	overlay := &GraphOverlay{Visible: append([]string(nil), state.Visible...)}
	for _, id := range state.Visible {
		if state.Answers.Answered(id) {
			overlay.Answered = append(overlay.Answered, id)
		}
	}
	return overlay
}

// GenerateMermaid produces a Mermaid flowchart of the visibility rules.
// An edge points from a question to each question whose rules depend on it,
// labelled with the required value. Shapes follow the question kind:
// - Single choice: {{Hexagon}}
// - Multi choice: [[Subroutine]]
// - Free text: [/Parallelogram/]
// Unconditional questions get a thick border.
func GenerateMermaid(questions []domain.Question, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	var roots []string
	for _, q := range questions {
		safeID := sanitizeMermaidID(q.ID)

		opener, closer := "[", "]"
		switch q.Kind {
		case domain.KindSingleChoice:
			opener, closer = "{{", "}}"
		case domain.KindMultiChoice:
			opener, closer = "[[", "]]"
		case domain.KindFreeText:
			opener, closer = "[/", "/]"
		}

		label := q.ID
		if q.Optional {
			label += " (optional)"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, escapeLabel(label), closer))

		if q.Unconditional() {
			roots = append(roots, safeID)
		}
	}

	for _, q := range questions {
		safeTo := sanitizeMermaidID(q.ID)
		for i, rule := range q.Rules {
			for _, req := range rule.Requirements {
				cond := "= " + req.Value
				if len(q.Rules) > 1 {
					cond = fmt.Sprintf("rule %d: %s", i+1, cond)
				}
				sb.WriteString(fmt.Sprintf("    %s -- \"%s\" --> %s\n", sanitizeMermaidID(req.QuestionID), escapeLabel(cond), safeTo))
			}
		}
	}

	if len(roots) > 0 {
		sb.WriteString("    classDef root stroke-width:3px;\n")
		sb.WriteString(fmt.Sprintf("    class %s root;\n", strings.Join(roots, ",")))
	}

	// Apply Overlay Styles
	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef hidden fill:#eeeeee,stroke:#9e9e9e,stroke-dasharray:4,color:#000;\n")
		sb.WriteString("    classDef visible fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef answered fill:#c8e6c9,stroke:#2e7d32,stroke-width:2px,color:#000;\n")

		visible := make(map[string]bool, len(overlay.Visible))
		for _, id := range overlay.Visible {
			visible[id] = true
		}
		answered := make(map[string]bool, len(overlay.Answered))
		for _, id := range overlay.Answered {
			answered[id] = true
		}

		for _, q := range questions {
			class := "hidden"
			switch {
			case answered[q.ID]:
				class = "answered"
			case visible[q.ID]:
				class = "visible"
			}
			sb.WriteString(fmt.Sprintf("    class %s %s;\n", sanitizeMermaidID(q.ID), class))
		}
	}

	return sb.String()
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
