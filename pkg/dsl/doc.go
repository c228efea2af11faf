/*
Package dsl provides a Go DSL for programmatically constructing intake questionnaires.

It allows developers to define questions and their visibility rules with a fluent builder
instead of YAML, JSON or Markdown files. This is particularly useful for generated
questionnaires, unit tests and IDE autocompletion/type-checking.

Example usage:

	b := dsl.New()

	b.Add("allergies").
		Title("Do you have any allergies?").
		SingleChoice("yes", "no")

	b.Add("allergy_detail").
		Title("Please list them").
		FreeText().
		ShowWhen("allergies", "yes")

	// The result can be passed to intake.WithLoader or intake.WithQuestions.
	loader, err := b.Build()
*/
package dsl
