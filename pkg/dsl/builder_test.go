package dsl

import (
	"context"
	"testing"

	"github.com/aretw0/intake"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_Screening(t *testing.T) {
	b := New()

	b.Add("taken_before").
		Title("Have you taken this medication before?").
		SingleChoice("yes", "no").
		Option("yes", "Yes, in the last year")

	b.Add("side_effects").
		Title("Which side effects did you notice?").
		MultiChoice("nausea", "headache", "none").
		Exclusive("none").
		ShowWhen("taken_before", "yes")

	b.Add("notes").
		Description("Anything *else*?").
		Placeholder("Optional notes").
		Optional()

	questions := b.Questions()
	require.Len(t, questions, 3)

	first := questions[0]
	assert.Equal(t, domain.KindSingleChoice, first.Kind)
	assert.Equal(t, []domain.Option{
		{Value: "yes", Label: "Yes, in the last year"},
		{Value: "no", Label: "no"},
	}, first.Options)
	assert.True(t, first.Unconditional())

	second := questions[1]
	assert.True(t, second.IsExclusive("none"))
	assert.False(t, second.IsExclusive("nausea"))
	assert.Equal(t, []domain.Rule{{Requirements: []domain.Requirement{{QuestionID: "taken_before", Value: "yes"}}}}, second.Rules)

	notes := questions[2]
	assert.Equal(t, "notes", notes.Title)
	assert.Equal(t, domain.KindFreeText, notes.Kind)
	assert.True(t, notes.Optional)
}

func TestBuilder_AddReturnsExisting(t *testing.T) {
	b := New()
	b.Add("q1").SingleChoice("a")
	b.Add("q1").Option("b", "B").ShowWhen("q0", "x").Rule("extra", domain.Requirement{QuestionID: "q0", Value: "y"})

	questions := b.Questions()
	require.Len(t, questions, 1)
	assert.Len(t, questions[0].Options, 2)
	require.Len(t, questions[0].Rules, 2)
	assert.Equal(t, "extra", questions[0].Rules[0].ID)
}

func TestBuilder_BuildDrivesEngine(t *testing.T) {
	ctx := context.Background()

	_, err := New().Build()
	assert.ErrorIs(t, err, domain.ErrConfig)

	b := New()
	b.Add("allergies").SingleChoice("yes", "no")
	b.Add("detail").ShowWhen("allergies", "yes")

	loader, err := b.Build()
	require.NoError(t, err)

	eng, err := intake.New(ctx, "allergies", intake.WithLoader(loader))
	require.NoError(t, err)
	q, err := eng.NewQuestionnaire(ctx, "s1")
	require.NoError(t, err)

	require.NoError(t, q.RecordAnswer(ctx, "allergies", domain.Scalar("yes")))
	assert.Len(t, q.Visible(), 2)
	assert.False(t, q.IsComplete())
}
