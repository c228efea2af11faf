package runtime_test

import (
	"context"
	"testing"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_Navigation(t *testing.T) {
	ctx := context.Background()
	engine := newEngine(t, scenario())
	state, _ := engine.Start(ctx, "s")

	first, ok, err := engine.Next(state, "")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "q1", first.ID)

	_, ok, err = engine.Next(state, "q1")
	require.NoError(t, err)
	assert.False(t, ok, "q2 and q3 are hidden")

	state, _ = engine.Record(ctx, state, "q1", domain.Scalar("B"))

	next, ok, err := engine.Next(state, "q1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "q3", next.ID, "skips hidden q2")

	prev, ok, err := engine.Previous(state, "q3")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "q1", prev.ID)

	_, ok, err = engine.Previous(state, "q1")
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = engine.Next(state, "missing")
	assert.ErrorIs(t, err, domain.ErrUnknownQuestion)
}

func TestEngine_CanProceed(t *testing.T) {
	ctx := context.Background()
	questions := []domain.Question{
		{ID: "name", Kind: domain.KindFreeText},
		{ID: "notes", Kind: domain.KindFreeText, Optional: true},
	}
	engine := newEngine(t, questions)
	state, _ := engine.Start(ctx, "s")

	ok, err := engine.CanProceed(state, "name")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = engine.CanProceed(state, "notes")
	require.NoError(t, err)
	assert.True(t, ok, "optional questions never block")

	state, _ = engine.Record(ctx, state, "name", domain.Scalar("Ada"))
	ok, _ = engine.CanProceed(state, "name")
	assert.True(t, ok)

	_, err = engine.CanProceed(state, "unknown")
	assert.ErrorIs(t, err, domain.ErrUnknownQuestion)
}

func TestEngine_ProgressAndView(t *testing.T) {
	ctx := context.Background()
	questions := []domain.Question{
		{ID: "a", Kind: domain.KindFreeText},
		{ID: "b", Kind: domain.KindFreeText},
		{ID: "c", Kind: domain.KindFreeText, Optional: true},
		{ID: "d", Kind: domain.KindFreeText},
	}
	engine := newEngine(t, questions)
	state, _ := engine.Start(ctx, "s")
	assert.Zero(t, engine.Progress(state))

	state, _ = engine.Record(ctx, state, "a", domain.Scalar("1"))
	assert.InDelta(t, 0.25, engine.Progress(state), 1e-9)

	state, _ = engine.Record(ctx, state, "c", domain.Scalar("3"))
	assert.InDelta(t, 0.5, engine.Progress(state), 1e-9)

	view, err := engine.View(state)
	require.NoError(t, err)
	assert.Equal(t, "s", view.SessionID)
	assert.Len(t, view.Questions, 4)
	assert.Equal(t, []string{"b", "d"}, view.Missing)
	assert.False(t, view.Complete)
	assert.InDelta(t, 0.5, view.Progress, 1e-9)

	_, err = engine.View(nil)
	assert.ErrorIs(t, err, domain.ErrUninitialized)
}

func TestEngine_RefreshRederivesStoredState(t *testing.T) {
	engine := newEngine(t, scenario())
	stored := &domain.State{
		SessionID: "s",
		Status:    domain.StatusActive,
		Answers:   domain.AnswerSet{"q1": domain.Scalar("A")},
	}

	state, err := engine.Refresh(stored)
	require.NoError(t, err)
	assert.Equal(t, []string{"q1", "q2"}, state.Visible)
	assert.False(t, state.Complete)
	assert.Nil(t, stored.Visible, "input untouched")
}
