/*
Package runner walks a questionnaire step by step in a terminal or over JSON lines.

It shows one visible question at a time, reads an answer, records it through
the engine and advances to the next visible question. When the last question
is reached and every required answer is present, the questionnaire is submitted.

# Commands

At any prompt the user may type:

  - back: return to the previous visible question
  - next (or an empty line): keep the current answer and move on
  - exit / quit: stop without submitting (the session stays resumable)

Choice questions accept option numbers or values; multi-choice answers are
comma separated ("1,3").

# Usage

	r := runner.NewRunner(
		runner.WithSessionID("user-1"),
		runner.WithStore(store),
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
	)

	result, err := r.Run(ctx, engine, nil)
*/
package runner
