package filestorage_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photofolio/internal/storage"
	"photofolio/internal/storage/filestorage"
)

func TestLocalBlobStorage_PutAndDelete(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := filestorage.NewLocalBlobStorage(dir)
	require.NoError(t, err)

	data := []byte("jpeg bytes")
	require.NoError(t, store.Put(ctx, "portfolio/nature/a.jpg", data, "image/jpeg"))

	got, err := os.ReadFile(filepath.Join(dir, "portfolio", "nature", "a.jpg"))
	require.NoError(t, err)
	assert.Equal(t, data, got)

	require.NoError(t, store.Delete(ctx, "portfolio/nature/a.jpg"))

	_, err = os.Stat(filepath.Join(dir, "portfolio", "nature", "a.jpg"))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalBlobStorage_PutOverwrites(t *testing.T) {
	ctx := context.Background()

	store, err := filestorage.NewLocalBlobStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Put(ctx, "portfolio/nature/a.jpg", []byte("old"), "image/jpeg"))
	require.NoError(t, store.Put(ctx, "portfolio/nature/a.jpg", []byte("new"), "image/jpeg"))

	got, err := os.ReadFile(filepath.Join(store.BaseDir(), "portfolio", "nature", "a.jpg"))
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), got)
}

func TestLocalBlobStorage_DeleteMissing(t *testing.T) {
	ctx := context.Background()

	store, err := filestorage.NewLocalBlobStorage(t.TempDir())
	require.NoError(t, err)

	err = store.Delete(ctx, "portfolio/nature/missing.jpg")
	assert.ErrorIs(t, err, storage.ErrObjectNotFound)
}

func TestLocalBlobStorage_List(t *testing.T) {
	ctx := context.Background()

	store, err := filestorage.NewLocalBlobStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Put(ctx, "portfolio/nature/a.jpg", []byte("aa"), "image/jpeg"))
	require.NoError(t, store.Put(ctx, "portfolio/nature/b.png", []byte("bbbb"), "image/png"))
	require.NoError(t, store.Put(ctx, "portfolio/travel/c.jpg", []byte("cc"), "image/jpeg"))

	objects, err := store.List(ctx, "portfolio/nature/")
	require.NoError(t, err)
	require.Len(t, objects, 2)

	keys := []string{objects[0].Key, objects[1].Key}
	assert.ElementsMatch(t, []string{"portfolio/nature/a.jpg", "portfolio/nature/b.png"}, keys)

	for _, obj := range objects {
		assert.Positive(t, obj.Size)
	}
}

func TestLocalBlobStorage_ListMissingPrefix(t *testing.T) {
	ctx := context.Background()

	store, err := filestorage.NewLocalBlobStorage(t.TempDir())
	require.NoError(t, err)

	objects, err := store.List(ctx, "portfolio/wildlife/")
	require.NoError(t, err)
	assert.Len(t, objects, 0)
}

func TestLocalBlobStorage_ListSkipsTempFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := filestorage.NewLocalBlobStorage(dir)
	require.NoError(t, err)

	require.NoError(t, store.Put(ctx, "portfolio/nature/a.jpg", []byte("aa"), "image/jpeg"))

	// Осиротевший временный файл не должен попадать в листинг
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "portfolio", "nature", ".upload-123"), []byte("x"), 0644))

	objects, err := store.List(ctx, "portfolio/nature/")
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, "portfolio/nature/a.jpg", objects[0].Key)
}
