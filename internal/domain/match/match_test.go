package match

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, n := range names {
		p := filepath.Join(root, n)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("0\t1\tx\n"), 0o644))
	}
}

func TestFind_ExactFile(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "clip01.txt", "other.txt")

	m, err := Find(root, "clip01", ".txt")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "clip01.txt")}, m.Sources)
	assert.Empty(t, m.Extra)
}

func TestFind_PrefixFile(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "clip01_session2.txt")

	m, err := Find(root, "clip01", ".txt")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "clip01_session2.txt")}, m.Sources)
}

func TestFind_ExactBeatsPrefix(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "clip01_extra.txt", "clip01.txt")

	m, err := Find(root, "clip01", ".txt")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "clip01.txt")}, m.Sources)
	assert.Equal(t, []string{filepath.Join(root, "clip01_extra.txt")}, m.Extra)
}

func TestFind_IgnoresOtherExtensions(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "clip01.csv", "clip01.txt.bak")

	_, err := Find(root, "clip01", ".txt")
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestFind_NoMatch(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "unrelated.txt")

	_, err := Find(root, "clip01", ".txt")
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestFind_MissingRoot(t *testing.T) {
	_, err := Find(filepath.Join(t.TempDir(), "nope"), "clip01", ".txt")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoMatch)
}

func TestFind_DirectoryOrderedByNumericSuffix(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "clip01_labels")
	// Lexicographic order would put _10 before _2; numeric order must win.
	writeFiles(t, root,
		filepath.Join("clip01_labels", "frame_10.txt"),
		filepath.Join("clip01_labels", "frame_2.txt"),
		filepath.Join("clip01_labels", "frame_1.txt"),
		filepath.Join("clip01_labels", "notes.txt"),
	)

	m, err := Find(root, "clip01", ".txt")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "frame_1.txt"),
		filepath.Join(dir, "frame_2.txt"),
		filepath.Join(dir, "frame_10.txt"),
		filepath.Join(dir, "notes.txt"),
	}, m.Sources)
}

func TestFind_DirectoryNameContainsStem(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, filepath.Join("session3_clip01_v2", "labels_1.txt"))

	m, err := Find(root, "clip01", ".txt")
	require.NoError(t, err)
	require.Len(t, m.Sources, 1)
}

func TestFind_EmptyMatchingDirectory(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "clip01_labels"), 0o755))

	_, err := Find(root, "clip01", ".txt")
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestFind_FileBeatsDirectory(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root,
		"clip01.txt",
		filepath.Join("clip01_labels", "frame_1.txt"),
	)

	m, err := Find(root, "clip01", ".txt")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "clip01.txt")}, m.Sources)
	assert.Equal(t, []string{filepath.Join(root, "clip01_labels")}, m.Extra)
}

func TestTrailingIndex(t *testing.T) {
	cases := []struct {
		name string
		in   string
		num  int
		ok   bool
	}{
		{"simple", "frame_12.txt", 12, true},
		{"multiple underscores", "a_b_3.txt", 3, true},
		{"no underscore", "frame.txt", 0, false},
		{"non numeric", "frame_x.txt", 0, false},
		{"trailing underscore", "frame_.txt", 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			n, ok := trailingIndex(tc.in)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.num, n)
		})
	}
}
