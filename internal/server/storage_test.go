package server

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgo/modelservice/internal/config"
	"github.com/forgo/modelservice/internal/model"
	"github.com/forgo/modelservice/internal/repository"
)

func TestOpenStore_Memory(t *testing.T) {
	t.Parallel()

	store, closeFn, err := OpenStore(context.Background(), config.StorageConfig{Driver: config.DriverMemory})
	require.NoError(t, err)
	defer func() { _ = closeFn() }()

	_, ok := store.(*repository.MemoryModelRepository)
	assert.True(t, ok)
}

func TestOpenStore_SQLite(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store, closeFn, err := OpenStore(ctx, config.StorageConfig{Driver: config.DriverSQLite, DSN: ":memory:"})
	require.NoError(t, err)
	defer func() { _ = closeFn() }()

	require.NoError(t, store.Ping(ctx))
	_, err = store.Save(ctx, &model.Model{ID: 1, Name: "a"})
	require.NoError(t, err)

	found, err := store.Find(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "a", found.Name)
}

func TestOpenStore_UnknownDriver(t *testing.T) {
	t.Parallel()

	_, _, err := OpenStore(context.Background(), config.StorageConfig{Driver: "mongo"})
	assert.Error(t, err)
}
