package filex

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenUpload_ByExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "banner.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"a":1}`), 0o600))

	u, err := OpenUpload(path)
	require.NoError(t, err)
	defer u.Close()

	assert.Equal(t, "banner.json", u.Name)
	assert.Equal(t, int64(7), u.Size)
	assert.Equal(t, "application/json", u.ContentType)
}

func TestOpenUpload_Sniffed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "noext")
	require.NoError(t, os.WriteFile(path, []byte("plain words"), 0o600))

	u, err := OpenUpload(path)
	require.NoError(t, err)
	defer u.Close()

	assert.Equal(t, "text/plain; charset=utf-8", u.ContentType)

	b, err := io.ReadAll(u.File)
	require.NoError(t, err)
	assert.Equal(t, "plain words", string(b), "reader is rewound after sniffing")
}

func TestOpenUpload_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := OpenUpload(filepath.Join(dir, "missing.png"))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = OpenUpload(dir)
	require.Error(t, err)
}
