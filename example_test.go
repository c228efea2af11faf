package intake_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/intake"
	"github.com/aretw0/intake/pkg/domain"
)

// ExampleInitialize walks a small screening questionnaire where a follow-up
// question only appears for one answer of the first question.
func ExampleInitialize() {
	questions := []domain.Question{
		{
			ID:    "allergies",
			Title: "Do you have any allergies?",
			Kind:  domain.KindSingleChoice,
			Options: []domain.Option{
				{Value: "yes", Label: "Yes"},
				{Value: "no", Label: "No"},
			},
		},
		{
			ID:    "allergy_detail",
			Title: "Please list them",
			Kind:  domain.KindFreeText,
			Rules: []domain.Rule{{Requirements: []domain.Requirement{{QuestionID: "allergies", Value: "yes"}}}},
		},
	}

	q, err := intake.Initialize(questions)
	if err != nil {
		log.Fatal(err)
	}
	ctx := context.Background()

	fmt.Println("visible:", len(q.Visible()))

	if err := q.RecordAnswer(ctx, "allergies", domain.Scalar("yes")); err != nil {
		log.Fatal(err)
	}
	fmt.Println("visible:", len(q.Visible()), "complete:", q.IsComplete())

	if err := q.RecordAnswer(ctx, "allergy_detail", domain.Scalar("penicillin")); err != nil {
		log.Fatal(err)
	}

	payload, err := q.Submit(ctx)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("submitted:", payload["allergy_detail"])

	// Output:
	// visible: 1
	// visible: 2 complete: false
	// submitted: penicillin
}
