package screenshot

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCaptureWritesFile(t *testing.T) {
	dir := t.TempDir()
	cap := NewCommandCapturer(`printf 'fakepng' > {path}`, dir, zap.NewNop().Sugar())

	path, err := cap.Capture(context.Background())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(path), "screenshot_"))
	assert.True(t, strings.HasSuffix(path, ".png"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "fakepng", string(data))
}

func TestCaptureCancelledSelection(t *testing.T) {
	// The tool exits zero without writing anything, like an aborted selection.
	cap := NewCommandCapturer("true", t.TempDir(), zap.NewNop().Sugar())

	_, err := cap.Capture(context.Background())
	assert.ErrorIs(t, err, ErrCancelled)
}

func TestCaptureCommandFailure(t *testing.T) {
	cap := NewCommandCapturer("exit 3", t.TempDir(), zap.NewNop().Sugar())

	_, err := cap.Capture(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCancelled)
}

func TestCaptureWithoutCommand(t *testing.T) {
	cap := NewCommandCapturer("", t.TempDir(), zap.NewNop().Sugar())

	_, err := cap.Capture(context.Background())
	assert.Error(t, err)
}

func TestDataURI(t *testing.T) {
	path := filepath.Join(t.TempDir(), "img.png")
	require.NoError(t, os.WriteFile(path, []byte{0x89, 0x50, 0x4e, 0x47}, 0o644))

	uri, err := DataURI(path)
	require.NoError(t, err)

	want := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte{0x89, 0x50, 0x4e, 0x47})
	assert.Equal(t, want, uri)
}

func TestDataURIMissingFile(t *testing.T) {
	_, err := DataURI(filepath.Join(t.TempDir(), "nope.png"))
	assert.Error(t, err)
}
