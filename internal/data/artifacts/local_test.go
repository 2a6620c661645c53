package artifacts

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

func newStore(t *testing.T) *LocalStore {
	t.Helper()
	log, err := logger.New("test")
	require.NoError(t, err)
	s, err := NewLocalStore(log, t.TempDir())
	require.NoError(t, err)
	return s
}

func TestLocalStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	type doc struct {
		Title string `json:"title"`
	}
	require.NoError(t, s.Save(ctx, StagePath("req-1", "course_outline"), doc{Title: "Go"}))

	var got doc
	require.NoError(t, s.Load(ctx, "req-1/course_outline.json", &got))
	assert.Equal(t, "Go", got.Title)

	ok, err := s.Exists(ctx, "req-1/course_outline.json")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, s.SaveRaw(ctx, RawPath("req-1", "course_outline"), []byte("## Title: Go")))
	raw, err := s.LoadRaw(ctx, "req-1/raw/course_outline.md")
	require.NoError(t, err)
	assert.Equal(t, "## Title: Go", string(raw))

	entries, err := os.ReadDir(filepath.Join(s.Root(), "req-1"))
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp-")
	}
}

func TestLocalStoreOverwrite(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	require.NoError(t, s.SaveRaw(ctx, "a/b.md", []byte("first")))
	require.NoError(t, s.SaveRaw(ctx, "a/b.md", []byte("second")))
	raw, err := s.LoadRaw(ctx, "a/b.md")
	require.NoError(t, err)
	assert.Equal(t, "second", string(raw))
}

func TestLocalStoreNotFoundAndInvalidPaths(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	_, err := s.LoadRaw(ctx, "missing.json")
	assert.True(t, errors.Is(err, ErrNotFound))

	ok, err := s.Exists(ctx, "missing.json")
	require.NoError(t, err)
	assert.False(t, ok)

	for _, p := range []string{"", "/etc/passwd", "../escape.json", "a/../../b"} {
		assert.Error(t, s.SaveRaw(ctx, p, []byte("x")), p)
	}
}

func TestPathHelpers(t *testing.T) {
	assert.Equal(t, "r/progress.json", ProgressPath("r"))
	assert.Equal(t, "r/result.json", ResultPath("r"))
	assert.Equal(t, "r/raw/module_blocks_1_2.md", RawPath("r", "module_blocks_1_2"))
}
