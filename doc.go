/*
Package intake is a rule engine for dynamic health questionnaires embedded in a checkout flow.

It decides which questions are visible given the answers collected so far, enforces
answer shapes and "none of the above" exclusivity, tracks completeness and progress,
and produces the frozen answer payload that is attached to an order.

# Concept

A questionnaire is a fixed, ordered list of question definitions. Each question may carry
visibility rules: the question is shown only when every rule holds, and a rule holds only
when every one of its requirements matches the current answer of the question it names.
Visibility is recomputed from scratch after every answer, so there is no hidden ordering
state to get out of sync.

The engine is stateless: it takes a *domain.State and returns the next one. That makes it
easy to persist sessions in any ports.StateStore and serve them over HTTP or MCP.
For single-caller use, Questionnaire wraps an engine and its state in one object.

# Usage

	questionnaire, err := intake.Initialize(questions)
	if err != nil {
		log.Fatal(err) // *domain.ConfigError
	}

	ctx := context.Background()
	if err := questionnaire.RecordAnswer(ctx, "q1", domain.Scalar("A")); err != nil {
		log.Fatal(err)
	}

	fmt.Println(questionnaire.Visible(), questionnaire.ProgressFraction())

	if questionnaire.IsComplete() {
		payload, err := questionnaire.Submit(ctx)
		if err != nil {
			log.Fatal(err)
		}
		_ = payload // attach to the order
	}
*/
package intake
