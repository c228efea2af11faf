package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/aretw0/intake/pkg/adapters/file"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionCommands(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	cfg := Config{Store: StoreFile, StorePath: dir}

	var out bytes.Buffer
	require.NoError(t, ListSessions(ctx, cfg, &out))
	assert.Contains(t, out.String(), "No sessions found.")

	state := domain.NewState("s1")
	state.Answers["q1"] = domain.Scalar("yes")
	require.NoError(t, file.NewStore(dir).Save(ctx, "s1", state))

	out.Reset()
	require.NoError(t, ListSessions(ctx, cfg, &out))
	assert.Equal(t, "- s1\n", out.String())

	out.Reset()
	require.NoError(t, InspectSession(ctx, cfg, "s1", &out))
	assert.Contains(t, out.String(), `"q1": "yes"`)

	err := InspectSession(ctx, cfg, "ghost", &out)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	out.Reset()
	require.NoError(t, RemoveSessions(ctx, cfg, []string{"s1"}, &out))
	assert.Contains(t, out.String(), "Removed session 's1'")

	out.Reset()
	err = RemoveSessions(ctx, cfg, []string{"bad/id"}, &out)
	assert.ErrorContains(t, err, "failed to remove 1 session(s)")
}
