package validator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/intake/pkg/domain"
)

// Issue is a definition problem the engine tolerates but that usually signals a mistake.
type Issue struct {
	QuestionID string
	Message    string
}

func (i Issue) String() string {
	return fmt.Sprintf("question %q %s", i.QuestionID, i.Message)
}

// Check inspects the rules of questions the engine already accepted.
// It reports dependencies on unknown questions, values no option can produce,
// rules that always or never hold, and dependency cycles.
func Check(questions []domain.Question) []Issue {
	byID := make(map[string]domain.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	var issues []Issue
	add := func(id, format string, args ...any) {
		issues = append(issues, Issue{QuestionID: id, Message: fmt.Sprintf(format, args...)})
	}

	for _, q := range questions {
		for i, rule := range q.Rules {
			if len(rule.Requirements) == 0 {
				add(q.ID, "rule %d has no requirements and always holds", i+1)
			}

			scalar := make(map[string]string)
			for _, req := range rule.Requirements {
				dep, ok := byID[req.QuestionID]
				switch {
				case !ok:
					add(q.ID, "depends on unknown question %q", req.QuestionID)
					continue
				case req.QuestionID == q.ID:
					add(q.ID, "depends on itself")
					continue
				case dep.Kind.IsChoice():
					if _, ok := dep.Option(req.Value); !ok {
						add(q.ID, "requires %q = %q, which is not an option", req.QuestionID, req.Value)
					}
				}

				// A scalar answer holds one value, so two different required values never match.
				if dep.Kind != domain.KindMultiChoice {
					if prev, seen := scalar[req.QuestionID]; seen && prev != req.Value {
						add(q.ID, "rule %d requires %q to be both %q and %q and never holds", i+1, req.QuestionID, prev, req.Value)
					}
					scalar[req.QuestionID] = req.Value
				}
			}
		}
	}

	for _, cycle := range findCycles(questions, byID) {
		add(cycle[0], "is part of a dependency cycle: %s", strings.Join(cycle, " -> "))
	}
	return issues
}

// Validate returns an error listing every issue found by Check.
func Validate(questions []domain.Question) error {
	issues := Check(questions)
	if len(issues) == 0 {
		return nil
	}
	msgs := make([]string, len(issues))
	for i, issue := range issues {
		msgs[i] = issue.String()
	}
	return fmt.Errorf("found %d issues:\n- %s", len(issues), strings.Join(msgs, "\n- "))
}

// findCycles walks the dependency graph depth-first and returns each cycle once,
// starting at its earliest question in definition order.
func findCycles(questions []domain.Question, byID map[string]domain.Question) [][]string {
	position := make(map[string]int, len(questions))
	for i, q := range questions {
		position[q.ID] = i
	}

	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(questions))
	var stack []string
	var cycles [][]string
	seen := make(map[string]bool)

	var visit func(id string)
	visit = func(id string) {
		state[id] = visiting
		stack = append(stack, id)

		deps := byID[id].Dependencies()
		sort.Slice(deps, func(i, j int) bool { return position[deps[i]] < position[deps[j]] })
		for _, dep := range deps {
			if _, ok := byID[dep]; !ok || dep == id {
				continue
			}
			switch state[dep] {
			case unvisited:
				visit(dep)
			case visiting:
				start := 0
				for i, s := range stack {
					if s == dep {
						start = i
						break
					}
				}
				cycle := rotate(stack[start:], position)
				key := strings.Join(cycle, "|")
				if !seen[key] {
					seen[key] = true
					cycles = append(cycles, append(cycle, cycle[0]))
				}
			}
		}

		stack = stack[:len(stack)-1]
		state[id] = done
	}

	for _, q := range questions {
		if state[q.ID] == unvisited {
			visit(q.ID)
		}
	}
	return cycles
}

// rotate returns a copy of cycle starting at its earliest question.
func rotate(cycle []string, position map[string]int) []string {
	first := 0
	for i, id := range cycle {
		if position[id] < position[cycle[first]] {
			first = i
		}
	}
	out := make([]string, 0, len(cycle)+1)
	out = append(out, cycle[first:]...)
	return append(out, cycle[:first]...)
}
