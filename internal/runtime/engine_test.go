package runtime_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/intake/internal/runtime"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scenario builds: q1 single-choice {A,B}; q2 multi-choice shown when q1=A; q3 free-text shown when q1=B.
func scenario() []domain.Question {
	return []domain.Question{
		{
			ID:   "q1",
			Kind: domain.KindSingleChoice,
			Options: []domain.Option{
				{Value: "A", Label: "A"},
				{Value: "B", Label: "B"},
			},
		},
		{
			ID:   "q2",
			Kind: domain.KindMultiChoice,
			Options: []domain.Option{
				{Value: "x", Label: "X"},
				{Value: "y", Label: "Y"},
				{Value: "none", Label: "None of the above", Exclusive: true},
			},
			Rules: []domain.Rule{{Requirements: []domain.Requirement{{QuestionID: "q1", Value: "A"}}}},
		},
		{
			ID:    "q3",
			Kind:  domain.KindFreeText,
			Rules: []domain.Rule{{Requirements: []domain.Requirement{{QuestionID: "q1", Value: "B"}}}},
		},
	}
}

func newEngine(t *testing.T, questions []domain.Question, opts ...runtime.EngineOption) *runtime.Engine {
	t.Helper()
	engine, err := runtime.NewEngine(questions, opts...)
	require.NoError(t, err)
	return engine
}

func TestEngine_Scenario(t *testing.T) {
	ctx := context.Background()
	engine := newEngine(t, scenario())

	state, err := engine.Start(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, state.Status)
	assert.Empty(t, state.Answers)
	assert.Equal(t, []string{"q1"}, state.Visible)
	assert.False(t, state.Complete)

	state, err = engine.Record(ctx, state, "q1", domain.Scalar("A"))
	require.NoError(t, err)
	assert.Equal(t, []string{"q1", "q2"}, state.Visible)

	state, err = engine.Record(ctx, state, "q2", domain.Multi("x"))
	require.NoError(t, err)
	assert.True(t, state.Complete)

	state, err = engine.Record(ctx, state, "q1", domain.Scalar("B"))
	require.NoError(t, err)
	assert.Equal(t, []string{"q1", "q3"}, state.Visible)
	assert.True(t, state.Answers["q2"].Equal(domain.Multi("x")), "hidden answers are retained")
	assert.False(t, state.Complete, "q3 is now required")
	assert.Equal(t, []string{"q3"}, engine.Missing(state))

	state, err = engine.Record(ctx, state, "q3", domain.Scalar("some text"))
	require.NoError(t, err)
	assert.True(t, state.Complete)
}

func TestEngine_NoRulesAllVisible(t *testing.T) {
	questions := []domain.Question{
		{ID: "c", Kind: domain.KindFreeText},
		{ID: "a", Kind: domain.KindFreeText},
		{ID: "b", Kind: domain.KindFreeText, Optional: true},
	}
	engine := newEngine(t, questions)

	state, err := engine.Start(context.Background(), "s")
	require.NoError(t, err)

	if diff := cmp.Diff(questions, engine.Visible(state)); diff != "" {
		t.Errorf("visible mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"c", "a", "b"}, state.Visible)
}

func TestEngine_VisibilityRequiresEveryRequirement(t *testing.T) {
	ctx := context.Background()
	questions := []domain.Question{
		{ID: "smoker", Kind: domain.KindSingleChoice, Options: []domain.Option{{Value: "yes"}, {Value: "no"}}},
		{ID: "cough", Kind: domain.KindSingleChoice, Options: []domain.Option{{Value: "yes"}, {Value: "no"}}},
		{
			ID:   "followup",
			Kind: domain.KindFreeText,
			Rules: []domain.Rule{
				{Requirements: []domain.Requirement{{QuestionID: "smoker", Value: "yes"}}},
				{Requirements: []domain.Requirement{{QuestionID: "cough", Value: "yes"}}},
			},
		},
	}
	engine := newEngine(t, questions)

	state, _ := engine.Start(ctx, "s")
	assert.False(t, state.IsVisible("followup"), "unanswered dependency hides the question")

	state, err := engine.Record(ctx, state, "smoker", domain.Scalar("yes"))
	require.NoError(t, err)
	assert.False(t, state.IsVisible("followup"), "only one rule satisfied")

	state, err = engine.Record(ctx, state, "cough", domain.Scalar("yes"))
	require.NoError(t, err)
	assert.True(t, state.IsVisible("followup"))

	state, err = engine.Record(ctx, state, "cough", domain.Scalar("no"))
	require.NoError(t, err)
	assert.False(t, state.IsVisible("followup"))
}

func TestEngine_MultiValueRequirementUsesMembership(t *testing.T) {
	ctx := context.Background()
	questions := []domain.Question{
		{ID: "symptoms", Kind: domain.KindMultiChoice, Options: []domain.Option{{Value: "fever"}, {Value: "rash"}}},
		{
			ID:    "rash_detail",
			Kind:  domain.KindFreeText,
			Rules: []domain.Rule{{Requirements: []domain.Requirement{{QuestionID: "symptoms", Value: "rash"}}}},
		},
	}
	engine := newEngine(t, questions)
	state, _ := engine.Start(ctx, "s")

	state, err := engine.Record(ctx, state, "symptoms", domain.Multi("fever", "rash"))
	require.NoError(t, err)
	assert.True(t, state.IsVisible("rash_detail"))
}

func TestEngine_RecordIsIdempotent(t *testing.T) {
	ctx := context.Background()
	engine := newEngine(t, scenario())
	start, _ := engine.Start(ctx, "s")

	once, err := engine.Record(ctx, start, "q1", domain.Scalar("A"))
	require.NoError(t, err)
	twice, err := engine.Record(ctx, once, "q1", domain.Scalar("A"))
	require.NoError(t, err)

	assert.Equal(t, once.Visible, twice.Visible)
	assert.Equal(t, once.Answers, twice.Answers)
	assert.Equal(t, once.UpdatedAt, twice.UpdatedAt)

	multiOnce, err := engine.Record(ctx, once, "q2", domain.Multi("x", "y"))
	require.NoError(t, err)
	multiTwice, err := engine.Record(ctx, multiOnce, "q2", domain.Multi("x", "y"))
	require.NoError(t, err)
	assert.Equal(t, multiOnce.Answers, multiTwice.Answers)

	for _, set := range [][]string{{"x", "none"}, {"none", "x"}, {"x", "none", "y"}} {
		mixedOnce, err := engine.Record(ctx, once, "q2", domain.Multi(set...))
		require.NoError(t, err)
		mixedTwice, err := engine.Record(ctx, mixedOnce, "q2", domain.Multi(set...))
		require.NoError(t, err)
		assert.Equal(t, mixedOnce.Answers, mixedTwice.Answers, "set %v", set)
		assert.Equal(t, mixedOnce.Visible, mixedTwice.Visible, "set %v", set)
		assert.Equal(t, mixedOnce.UpdatedAt, mixedTwice.UpdatedAt, "set %v", set)
	}
}

func TestEngine_RecordDoesNotMutateInput(t *testing.T) {
	ctx := context.Background()
	engine := newEngine(t, scenario())
	start, _ := engine.Start(ctx, "s")

	_, err := engine.Record(ctx, start, "q1", domain.Scalar("A"))
	require.NoError(t, err)
	assert.Empty(t, start.Answers)
	assert.Equal(t, []string{"q1"}, start.Visible)
}

func TestEngine_Exclusivity(t *testing.T) {
	ctx := context.Background()
	engine := newEngine(t, scenario())
	state, _ := engine.Start(ctx, "s")
	state, _ = engine.Record(ctx, state, "q1", domain.Scalar("A"))

	t.Run("Exclusive Clears Others", func(t *testing.T) {
		next, err := engine.Select(ctx, state, "q2", "x")
		require.NoError(t, err)
		next, err = engine.Select(ctx, next, "q2", "y")
		require.NoError(t, err)
		assert.Equal(t, []string{"x", "y"}, next.Answers["q2"].Values())

		next, err = engine.Select(ctx, next, "q2", "none")
		require.NoError(t, err)
		assert.Equal(t, []string{"none"}, next.Answers["q2"].Values())

		next, err = engine.Select(ctx, next, "q2", "y")
		require.NoError(t, err)
		assert.Equal(t, []string{"y"}, next.Answers["q2"].Values())
	})

	t.Run("Recorded Set Resolves In List Order", func(t *testing.T) {
		next, err := engine.Record(ctx, state, "q2", domain.Multi("x", "none"))
		require.NoError(t, err)
		assert.Equal(t, []string{"none"}, next.Answers["q2"].Values())

		next, err = engine.Record(ctx, next, "q2", domain.Multi("x", "none"))
		require.NoError(t, err)
		assert.Equal(t, []string{"none"}, next.Answers["q2"].Values())

		next, err = engine.Record(ctx, next, "q2", domain.Multi("none", "x", "y"))
		require.NoError(t, err)
		assert.Equal(t, []string{"x", "y"}, next.Answers["q2"].Values())
	})

	t.Run("Deselect", func(t *testing.T) {
		next, err := engine.Record(ctx, state, "q2", domain.Multi("x", "y"))
		require.NoError(t, err)
		next, err = engine.Deselect(ctx, next, "q2", "x")
		require.NoError(t, err)
		assert.Equal(t, []string{"y"}, next.Answers["q2"].Values())

		same, err := engine.Deselect(ctx, next, "q2", "x")
		require.NoError(t, err)
		assert.Equal(t, next.Answers, same.Answers)
	})
	t.Run("Deselect Single Choice Clears Answer", func(t *testing.T) {
		next, err := engine.Deselect(ctx, state, "q1", "B")
		require.NoError(t, err)
		assert.Equal(t, state.Answers, next.Answers, "other value is a no-op")

		next, err = engine.Deselect(ctx, state, "q1", "A")
		require.NoError(t, err)
		_, answered := next.Answers["q1"]
		assert.False(t, answered)
		assert.Equal(t, []string{"q1"}, next.Visible)
		assert.False(t, next.Complete)
		assert.Contains(t, state.Answers, "q1", "input state untouched")
	})
}

func TestEngine_ExclusiveHeuristic(t *testing.T) {
	ctx := context.Background()
	questions := []domain.Question{{
		ID:   "conditions",
		Kind: domain.KindMultiChoice,
		Options: []domain.Option{
			{Value: "asthma", Label: "Asthma"},
			{Value: "diabetes", Label: "Diabetes"},
			{Value: "none", Label: "None of the above"},
		},
	}}

	plain := newEngine(t, questions)
	state, _ := plain.Start(ctx, "s")
	state, err := plain.Record(ctx, state, "conditions", domain.Multi("asthma", "none"))
	require.NoError(t, err)
	assert.Equal(t, []string{"asthma", "none"}, state.Answers["conditions"].Values(), "no flag, no exclusivity")

	inferred := newEngine(t, questions, runtime.WithExclusiveHeuristic())
	state, _ = inferred.Start(ctx, "s")
	state, err = inferred.Record(ctx, state, "conditions", domain.Multi("asthma", "none"))
	require.NoError(t, err)
	assert.Equal(t, []string{"none"}, state.Answers["conditions"].Values())
}

func TestEngine_CompletenessFollowsVisibility(t *testing.T) {
	ctx := context.Background()
	questions := []domain.Question{
		{ID: "pregnant", Kind: domain.KindSingleChoice, Options: []domain.Option{{Value: "yes"}, {Value: "no"}}},
		{
			ID:    "weeks",
			Kind:  domain.KindFreeText,
			Rules: []domain.Rule{{Requirements: []domain.Requirement{{QuestionID: "pregnant", Value: "yes"}}}},
		},
		{ID: "notes", Kind: domain.KindFreeText, Optional: true},
	}
	engine := newEngine(t, questions)
	state, _ := engine.Start(ctx, "s")
	assert.False(t, engine.IsComplete(state))

	state, _ = engine.Record(ctx, state, "pregnant", domain.Scalar("yes"))
	assert.False(t, state.Complete)

	state, _ = engine.Record(ctx, state, "weeks", domain.Scalar("   "))
	assert.False(t, state.Complete, "blank text does not count")

	state, _ = engine.Record(ctx, state, "weeks", domain.Scalar("12"))
	assert.True(t, state.Complete)

	state, _ = engine.Record(ctx, state, "weeks", domain.Scalar(""))
	assert.False(t, state.Complete)

	state, _ = engine.Record(ctx, state, "pregnant", domain.Scalar("no"))
	assert.True(t, state.Complete, "hidden question drops out of completeness")
	assert.True(t, engine.IsComplete(state))
}

func TestEngine_Submit(t *testing.T) {
	ctx := context.Background()
	engine := newEngine(t, scenario())
	state, _ := engine.Start(ctx, "s")

	_, _, err := engine.Submit(ctx, state)
	var incomplete *domain.IncompleteFormError
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, []string{"q1"}, incomplete.Missing)
	assert.ErrorIs(t, err, domain.ErrIncompleteForm)

	state, _ = engine.Record(ctx, state, "q1", domain.Scalar("A"))
	state, _ = engine.Record(ctx, state, "q2", domain.Multi("x"))
	state, _ = engine.Record(ctx, state, "q1", domain.Scalar("B"))
	state, _ = engine.Record(ctx, state, "q3", domain.Scalar("text"))

	submitted, payload, err := engine.Submit(ctx, state)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSubmitted, submitted.Status)
	assert.ElementsMatch(t, []string{"q1", "q2", "q3"}, payload.Keys(), "payload includes hidden answers")

	_, err = engine.Record(ctx, submitted, "q3", domain.Scalar("changed"))
	assert.ErrorIs(t, err, domain.ErrAlreadySubmitted)

	_, _, err = engine.Submit(ctx, submitted)
	assert.ErrorIs(t, err, domain.ErrAlreadySubmitted)

	payload["q1"] = domain.Scalar("tampered")
	assert.Equal(t, "B", submitted.Answers["q1"].Value(), "payload is a copy")
}

func TestEngine_SubmitWithPruning(t *testing.T) {
	ctx := context.Background()
	engine := newEngine(t, scenario(), runtime.WithHiddenAnswerPruning())
	state, _ := engine.Start(ctx, "s")
	state, _ = engine.Record(ctx, state, "q1", domain.Scalar("A"))
	state, _ = engine.Record(ctx, state, "q2", domain.Multi("x"))
	state, _ = engine.Record(ctx, state, "q1", domain.Scalar("B"))
	state, _ = engine.Record(ctx, state, "q3", domain.Scalar("text"))

	_, payload, err := engine.Submit(ctx, state)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"q1", "q3"}, payload.Keys())
}

func TestEngine_RecordErrors(t *testing.T) {
	ctx := context.Background()
	engine := newEngine(t, scenario())
	state, _ := engine.Start(ctx, "s")

	tests := []struct {
		name   string
		id     string
		answer domain.Answer
		target error
	}{
		{"Unknown Question", "q9", domain.Scalar("A"), domain.ErrUnknownQuestion},
		{"List For Single Choice", "q1", domain.Multi("A"), domain.ErrInvalidAnswerShape},
		{"Unknown Option", "q1", domain.Scalar("C"), domain.ErrInvalidAnswerShape},
		{"Scalar For Multi Choice", "q2", domain.Scalar("x"), domain.ErrInvalidAnswerShape},
		{"Unknown Multi Option", "q2", domain.Multi("x", "z"), domain.ErrInvalidAnswerShape},
		{"List For Free Text", "q3", domain.Multi("x"), domain.ErrInvalidAnswerShape},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.Record(ctx, state, tt.id, tt.answer)
			assert.ErrorIs(t, err, tt.target)
		})
	}

	_, err := engine.Record(ctx, nil, "q1", domain.Scalar("A"))
	assert.ErrorIs(t, err, domain.ErrUninitialized)
}

func TestNewEngine_ConfigErrors(t *testing.T) {
	tests := []struct {
		name      string
		questions []domain.Question
	}{
		{"Empty", nil},
		{"Empty ID", []domain.Question{{Kind: domain.KindFreeText}}},
		{"Duplicate ID", []domain.Question{{ID: "a", Kind: domain.KindFreeText}, {ID: "a", Kind: domain.KindFreeText}}},
		{"Unknown Kind", []domain.Question{{ID: "a", Kind: "slider"}}},
		{"Choice Without Options", []domain.Question{{ID: "a", Kind: domain.KindSingleChoice}}},
		{"Duplicate Option", []domain.Question{{ID: "a", Kind: domain.KindMultiChoice, Options: []domain.Option{{Value: "x"}, {Value: "x"}}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runtime.NewEngine(tt.questions)
			var cfgErr *domain.ConfigError
			assert.True(t, errors.As(err, &cfgErr), "expected ConfigError, got %v", err)
			assert.ErrorIs(t, err, domain.ErrConfig)
		})
	}
}

func TestNewEngine_CyclicRulesTerminate(t *testing.T) {
	ctx := context.Background()
	questions := []domain.Question{
		{
			ID: "a", Kind: domain.KindSingleChoice, Options: []domain.Option{{Value: "1"}},
			Rules: []domain.Rule{{Requirements: []domain.Requirement{{QuestionID: "b", Value: "1"}}}},
		},
		{
			ID: "b", Kind: domain.KindSingleChoice, Options: []domain.Option{{Value: "1"}},
			Rules: []domain.Rule{{Requirements: []domain.Requirement{{QuestionID: "a", Value: "1"}}}},
		},
	}
	engine := newEngine(t, questions)
	state, err := engine.Start(ctx, "s")
	require.NoError(t, err)
	assert.Empty(t, state.Visible)
	assert.True(t, state.Complete)
	assert.Zero(t, engine.Progress(state))
}

func TestEngine_Hooks(t *testing.T) {
	ctx := context.Background()

	var answers []string
	var shown, hidden []string
	submits := 0
	hooks := domain.LifecycleHooks{
		OnAnswer: func(_ context.Context, e *domain.AnswerEvent) {
			if e.Changed {
				answers = append(answers, e.QuestionID)
			}
		},
		OnVisibilityChange: func(_ context.Context, e *domain.VisibilityEvent) {
			shown = append(shown, e.Shown...)
			hidden = append(hidden, e.Hidden...)
		},
		OnSubmit: func(_ context.Context, e *domain.SubmitEvent) {
			submits++
			assert.Equal(t, "s", e.SessionID)
		},
	}

	engine := newEngine(t, scenario(), runtime.WithLifecycleHooks(hooks))
	state, _ := engine.Start(ctx, "s")
	state, _ = engine.Record(ctx, state, "q1", domain.Scalar("A"))
	state, _ = engine.Record(ctx, state, "q1", domain.Scalar("A"))
	state, _ = engine.Record(ctx, state, "q2", domain.Multi("y"))
	_, _, err := engine.Submit(ctx, state)
	require.NoError(t, err)

	assert.Equal(t, []string{"q1", "q2"}, answers)
	assert.Equal(t, []string{"q1", "q2"}, shown)
	assert.Empty(t, hidden)
	assert.Equal(t, 1, submits)
}
