package storage

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Save("proj/abc.txt", strings.NewReader("hello")))

	src, err := store.Open("proj/abc.txt")
	require.NoError(t, err)
	data, err := io.ReadAll(src)
	require.NoError(t, err)
	require.NoError(t, src.Close())
	assert.Equal(t, "hello", string(data))

	require.NoError(t, store.Delete("proj/abc.txt"))
	_, err = store.Open("proj/abc.txt")
	assert.Error(t, err)
}

func TestLocalStorageDeleteMissing(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	// Deleting a key that never existed is not an error
	assert.NoError(t, store.Delete("proj/missing.txt"))
}

func TestLocalStorageDeletePrefix(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Save("proj/a.txt", strings.NewReader("a")))
	require.NoError(t, store.Save("proj/b.txt", strings.NewReader("b")))
	require.NoError(t, store.Save("other/c.txt", strings.NewReader("c")))

	require.NoError(t, store.DeletePrefix("proj"))

	_, err = store.Open("proj/a.txt")
	assert.Error(t, err)
	_, err = store.Open("proj/b.txt")
	assert.Error(t, err)

	src, err := store.Open("other/c.txt")
	require.NoError(t, err)
	require.NoError(t, src.Close())
}

func TestLocalStorageRejectsEscapingKeys(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"../evil.txt", "a/../../evil.txt"} {
		assert.Error(t, store.Save(key, strings.NewReader("x")), key)
		_, err = store.Open(key)
		assert.Error(t, err, key)
	}
}
