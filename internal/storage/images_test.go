package storage

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveDataURL_WritesFile(t *testing.T) {
	store, err := NewImageStore(t.TempDir())
	require.NoError(t, err)

	payload := base64.StdEncoding.EncodeToString([]byte("fake-png-bytes"))
	name, err := store.SaveDataURL("data:image/png;base64," + payload)

	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, ".png"))

	written, err := os.ReadFile(filepath.Join(store.dir, name))
	require.NoError(t, err)
	assert.Equal(t, []byte("fake-png-bytes"), written)
}

func TestSaveDataURL_UniqueNames(t *testing.T) {
	store, err := NewImageStore(t.TempDir())
	require.NoError(t, err)

	payload := base64.StdEncoding.EncodeToString([]byte("x"))
	first, err := store.SaveDataURL("data:image/jpeg;base64," + payload)
	require.NoError(t, err)
	second, err := store.SaveDataURL("data:image/jpeg;base64," + payload)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestSaveDataURL_Rejections(t *testing.T) {
	store, err := NewImageStore(t.TempDir())
	require.NoError(t, err)

	tests := []struct {
		name    string
		dataURL string
	}{
		{name: "no data prefix", dataURL: "image/png;base64,aGk="},
		{name: "no comma", dataURL: "data:image/png;base64"},
		{name: "not base64 encoding", dataURL: "data:image/png;charset=utf8,hi"},
		{name: "unsupported media type", dataURL: "data:application/pdf;base64,aGk="},
		{name: "corrupt payload", dataURL: "data:image/png;base64,!!!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.SaveDataURL(tt.dataURL)
			assert.ErrorIs(t, err, ErrInvalidDataURL)
		})
	}
}

func TestNewImageStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")

	_, err := NewImageStore(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
