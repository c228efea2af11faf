package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/intake/pkg/adapters/file"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Store implements StateStore
var _ ports.StateStore = (*file.Store)(nil)

func TestFileStore_Contract(t *testing.T) {
	store := file.NewStore(t.TempDir())
	ports.RunStateStoreContract(t, store)
}

func TestFileStore_WritesReadableJSON(t *testing.T) {
	dir := t.TempDir()
	store := file.NewStore(dir)
	ctx := context.Background()

	state := domain.NewState("sess")
	state.Answers["symptoms"] = domain.Multi("fever", "rash")
	require.NoError(t, store.Save(ctx, "sess", state))

	raw, err := os.ReadFile(filepath.Join(dir, "sess.json"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"symptoms": [`)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestFileStore_RejectsPathTraversal(t *testing.T) {
	store := file.NewStore(t.TempDir())
	ctx := context.Background()

	assert.Error(t, store.Save(ctx, "../escape", domain.NewState("x")))
	assert.Error(t, store.Save(ctx, ".hidden", domain.NewState("x")))
	_, err := store.Load(ctx, "")
	assert.Error(t, err)
}

func TestFileStore_ListMissingDir(t *testing.T) {
	store := file.NewStore(filepath.Join(t.TempDir(), "missing"))
	ids, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestFileStore_ListIncludesTmpLikeIDs(t *testing.T) {
	dir := t.TempDir()
	store := file.NewStore(dir)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "tmp-abc", domain.NewState("tmp-abc")))
	require.NoError(t, store.Save(ctx, "regular", domain.NewState("regular")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".regular-123.tmp"), []byte("{"), 0o600))

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"tmp-abc", "regular"}, ids)

	loaded, err := store.Load(ctx, "tmp-abc")
	require.NoError(t, err)
	assert.Equal(t, "tmp-abc", loaded.SessionID)
}
