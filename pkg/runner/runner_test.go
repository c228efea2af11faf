package runner_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aretw0/intake"
	"github.com/aretw0/intake/pkg/adapters/memory"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func screening() []domain.Question {
	return []domain.Question{
		{
			ID:    "q1",
			Title: "Have you taken this medication before?",
			Kind:  domain.KindSingleChoice,
			Options: []domain.Option{
				{Value: "A", Label: "Yes"},
				{Value: "B", Label: "No"},
			},
		},
		{
			ID:    "q2",
			Title: "Which side effects did you notice?",
			Kind:  domain.KindMultiChoice,
			Options: []domain.Option{
				{Value: "nausea", Label: "Nausea"},
				{Value: "headache", Label: "Headache"},
			},
			Rules: []domain.Rule{{Requirements: []domain.Requirement{{QuestionID: "q1", Value: "A"}}}},
		},
		{
			ID:    "q3",
			Title: "Why are you starting treatment?",
			Kind:  domain.KindFreeText,
			Rules: []domain.Rule{{Requirements: []domain.Requirement{{QuestionID: "q1", Value: "B"}}}},
		},
	}
}

func newEngine(t *testing.T) *intake.Engine {
	t.Helper()
	eng, err := intake.New(context.Background(), "", intake.WithQuestions(screening()))
	require.NoError(t, err)
	return eng
}

func readMessages(t *testing.T, r io.Reader) []runner.Message {
	t.Helper()
	var msgs []runner.Message
	dec := json.NewDecoder(r)
	for {
		var m runner.Message
		err := dec.Decode(&m)
		if errors.Is(err, io.EOF) {
			return msgs
		}
		require.NoError(t, err)
		msgs = append(msgs, m)
	}
}

func messagesOfType(msgs []runner.Message, typ string) []runner.Message {
	var out []runner.Message
	for _, m := range msgs {
		if m.Type == typ {
			out = append(out, m)
		}
	}
	return out
}

func TestRunner_CompletesAndSubmits(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader("2\n\"energy\"\n")
	r := runner.NewRunner(runner.WithInputHandler(runner.NewJSONHandler(in, &out)))

	res, err := r.Run(context.Background(), newEngine(t), nil)
	require.NoError(t, err)
	require.True(t, res.Submitted)
	assert.Equal(t, domain.StatusSubmitted, res.State.Status)
	assert.Equal(t, map[string]any{"q1": "B", "q3": "energy"}, res.Payload.Map())

	msgs := readMessages(t, &out)
	questions := messagesOfType(msgs, "question")
	require.Len(t, questions, 2)
	assert.Equal(t, "q1", questions[0].Prompt.Question.ID)
	assert.Equal(t, 1, questions[0].Prompt.Position)
	assert.Equal(t, "q3", questions[1].Prompt.Question.ID)
	assert.Equal(t, 2, questions[1].Prompt.Total)

	summary := messagesOfType(msgs, "summary")
	require.Len(t, summary, 1)
	assert.Equal(t, res.Payload.Map(), summary[0].Payload.Map())
}

func TestRunner_NavigationAndExit(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader("back\nnext\n7\nexit\n")
	r := runner.NewRunner(runner.WithInputHandler(runner.NewJSONHandler(in, &out)))

	res, err := r.Run(context.Background(), newEngine(t), nil)
	require.NoError(t, err)
	assert.False(t, res.Submitted)
	assert.Nil(t, res.Payload)
	assert.Equal(t, domain.StatusActive, res.State.Status)

	system := messagesOfType(readMessages(t, &out), "system")
	require.Len(t, system, 3)
	assert.Equal(t, "Already at the first question.", system[0].Message)
	assert.Equal(t, "An answer is required.", system[1].Message)
	assert.Contains(t, system[2].Message, "not one of the options")
}

func TestRunner_BackRevisitsAnswer(t *testing.T) {
	var out bytes.Buffer
	// Answer q1, step back, change it, then answer the newly visible question.
	in := strings.NewReader("Yes\nback\n2\nenergy\n")
	r := runner.NewRunner(runner.WithInputHandler(runner.NewJSONHandler(in, &out)))

	res, err := r.Run(context.Background(), newEngine(t), nil)
	require.NoError(t, err)
	require.True(t, res.Submitted)
	assert.Equal(t, "B", res.Payload["q1"].Value())
	assert.Equal(t, "energy", res.Payload["q3"].Value())

	questions := messagesOfType(readMessages(t, &out), "question")
	require.Len(t, questions, 4)
	assert.Equal(t, "q2", questions[1].Prompt.Question.ID)
	assert.Equal(t, "q1", questions[2].Prompt.Question.ID)
	require.NotNil(t, questions[2].Prompt.Answer)
	assert.Equal(t, "A", questions[2].Prompt.Answer.Value())
}

func TestRunner_ResumesFromStore(t *testing.T) {
	ctx := context.Background()
	eng := newEngine(t)
	store := memory.NewStore()

	state, err := eng.Start(ctx, "s1")
	require.NoError(t, err)
	state, err = eng.Record(ctx, state, "q1", domain.Scalar("A"))
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, "s1", state))

	var out bytes.Buffer
	in := strings.NewReader("[\"nausea\", \"2\"]\n")
	r := runner.NewRunner(
		runner.WithStore(store),
		runner.WithSessionID("s1"),
		runner.WithInputHandler(runner.NewJSONHandler(in, &out)),
	)

	res, err := r.Run(ctx, eng, nil)
	require.NoError(t, err)
	require.True(t, res.Submitted)
	assert.Equal(t, []string{"nausea", "headache"}, res.Payload["q2"].Values())

	questions := messagesOfType(readMessages(t, &out), "question")
	require.Len(t, questions, 1)
	assert.Equal(t, "q2", questions[0].Prompt.Question.ID)

	stored, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSubmitted, stored.Status)

	_, err = r.Run(ctx, eng, nil)
	assert.ErrorIs(t, err, domain.ErrAlreadySubmitted)
}

type recordingSubmitter struct {
	orders []domain.Order
	err    error
}

func (s *recordingSubmitter) SubmitOrder(ctx context.Context, order domain.Order) error {
	if s.err != nil {
		return s.err
	}
	s.orders = append(s.orders, order)
	return nil
}

func TestRunner_ForwardsOrder(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	sub := &recordingSubmitter{err: errors.New("checkout down")}

	newRunner := func(input string) *runner.Runner {
		return runner.NewRunner(
			runner.WithStore(store),
			runner.WithSessionID("s1"),
			runner.WithOrderSubmitter(sub, domain.Order{OfferingID: "offer-1"}),
			runner.WithInputHandler(runner.NewJSONHandler(strings.NewReader(input), io.Discard)),
		)
	}

	_, err := newRunner("2\nenergy\n").Run(ctx, newEngine(t), nil)
	assert.ErrorContains(t, err, "checkout down")

	stored, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, stored.Status)

	sub.err = nil
	// Both answers were saved, so the retry goes straight to submission
	// after confirming the first question.
	res, err := newRunner("next\nnext\n").Run(ctx, newEngine(t), nil)
	require.NoError(t, err)
	require.True(t, res.Submitted)

	require.Len(t, sub.orders, 1)
	assert.Equal(t, "s1", sub.orders[0].SessionKey)
	assert.Equal(t, "offer-1", sub.orders[0].OfferingID)
	assert.Equal(t, map[string]any{"q1": "B", "q3": "energy"}, sub.orders[0].Questionnaire.Map())
}

func TestRunner_InputError(t *testing.T) {
	r := runner.NewRunner(runner.WithInputHandler(runner.NewJSONHandler(strings.NewReader(""), io.Discard)))
	_, err := r.Run(context.Background(), newEngine(t), nil)
	assert.ErrorIs(t, err, io.EOF)
}
