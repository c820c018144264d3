package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/ignitofy-engine/internal/core/domain"
)

// runSnapshotContract exercises the behaviour every SnapshotRepository shares.
func runSnapshotContract(t *testing.T, repo domain.SnapshotRepository) {
	ctx := context.Background()

	require.NoError(t, repo.Clear(ctx), "clearing an empty slot must succeed")

	t.Run("Load on empty slot", func(t *testing.T) {
		_, err := repo.Load(ctx)
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
	})

	t.Run("Save then Load", func(t *testing.T) {
		payload := []byte(`[{"id":"a"}]`)
		require.NoError(t, repo.Save(ctx, payload))

		got, err := repo.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, payload, got)
	})

	t.Run("Save replaces previous payload", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, []byte(`[]`)))

		got, err := repo.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, []byte(`[]`), got)
	})

	t.Run("Clear removes payload", func(t *testing.T) {
		require.NoError(t, repo.Clear(ctx))

		_, err := repo.Load(ctx)
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)

		require.NoError(t, repo.Clear(ctx))
	})
}

func TestInMemorySnapshotRepository(t *testing.T) {
	runSnapshotContract(t, NewInMemorySnapshotRepository())
}

func TestInMemorySnapshotRepository_ReturnsCopies(t *testing.T) {
	repo := NewInMemorySnapshotRepository()
	ctx := context.Background()

	payload := []byte(`[]`)
	require.NoError(t, repo.Save(ctx, payload))
	payload[0] = 'x'

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), got)

	got[0] = 'y'
	again, _ := repo.Load(ctx)
	assert.Equal(t, []byte(`[]`), again)
}

func TestFileSnapshotRepository(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "ignitofy-habits.json")

	repo, err := NewFileSnapshotRepository(path)
	require.NoError(t, err)

	runSnapshotContract(t, repo)
}

func TestFileSnapshotRepository_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	repo, err := NewFileSnapshotRepository(filepath.Join(dir, "snap.json"))
	require.NoError(t, err)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Save(ctx, []byte(`[]`)))
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "snap.json", entries[0].Name())
}

func TestFileSnapshotRepository_CanceledContext(t *testing.T) {
	repo, err := NewFileSnapshotRepository(filepath.Join(t.TempDir(), "snap.json"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, repo.Save(ctx, []byte(`[]`)), context.Canceled)

	_, err = repo.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
}
