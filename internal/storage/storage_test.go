package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	store, err := NewLocalStore(root, "/uploads/")
	require.NoError(t, err)

	t.Run("put writes bytes under key", func(t *testing.T) {
		n, err := store.Put(ctx, "images/a.png", strings.NewReader("png-bytes"))
		require.NoError(t, err)
		assert.Equal(t, int64(9), n)

		data, err := os.ReadFile(filepath.Join(root, "images", "a.png"))
		require.NoError(t, err)
		assert.Equal(t, "png-bytes", string(data))
	})

	t.Run("url joins base", func(t *testing.T) {
		assert.Equal(t, "/uploads/images/a.png", store.URL("images/a.png"))
	})

	t.Run("rejects escaping keys", func(t *testing.T) {
		for _, key := range []string{"", "../x", "/abs", "a/../../x", "a\\b", "."} {
			_, err := store.Put(ctx, key, strings.NewReader("x"))
			assert.ErrorIs(t, err, ErrInvalidKey, "key %q", key)
		}
	})

	t.Run("list returns slash keys", func(t *testing.T) {
		_, err := store.Put(ctx, "documents/b.pdf", strings.NewReader("pdf"))
		require.NoError(t, err)

		blobs, err := store.List(ctx)
		require.NoError(t, err)
		keys := make([]string, 0, len(blobs))
		for _, b := range blobs {
			keys = append(keys, b.Key)
		}
		assert.ElementsMatch(t, []string{"images/a.png", "documents/b.pdf"}, keys)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "documents/b.pdf"))
		require.NoError(t, store.Delete(ctx, "documents/b.pdf"))
		_, err := os.Stat(filepath.Join(root, "documents", "b.pdf"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("cancelled context aborts put", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := store.Put(cctx, "images/c.png", strings.NewReader("x"))
		assert.Error(t, err)
		_, statErr := os.Stat(filepath.Join(root, "images", "c.png"))
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("handler serves files but not directories", func(t *testing.T) {
		srv := http.StripPrefix("/uploads", store.Handler())

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/uploads/images/a.png", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "png-bytes", rec.Body.String())

		rec = httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/uploads/images/", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
