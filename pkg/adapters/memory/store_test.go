package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/intake/pkg/adapters/memory"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunStateStoreContract(t, store)
}

func TestMemoryStore_Isolation(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	state := domain.NewState("s")
	state.Answers["q1"] = domain.Scalar("A")
	require.NoError(t, store.Save(ctx, "s", state))

	state.Answers["q1"] = domain.Scalar("changed")
	loaded, err := store.Load(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, "A", loaded.Answers["q1"].Value())
}
