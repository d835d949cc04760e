//go:build !integration

package walker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/gitlab-org/buildshaders/common"
	helperstest "gitlab.com/gitlab-org/buildshaders/helpers/test"
)

func createTree(t *testing.T, files ...string) string {
	t.Helper()

	root := t.TempDir()
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(f), 0o644))
	}

	return root
}

func relPaths(t *testing.T, root string, entries []common.FileEntry) []string {
	t.Helper()

	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		assert.False(t, e.IsDir)

		rel, err := filepath.Rel(root, e.Path)
		require.NoError(t, err)
		paths = append(paths, filepath.ToSlash(rel))
	}

	return paths
}

func nullOptions() Options {
	logger, _ := test.NewNullLogger()
	return Options{Logger: logger}
}

func TestWalk(t *testing.T) {
	tests := map[string]struct {
		files         []string
		exclude       []string
		expectedPaths []string
	}{
		"empty root": {
			expectedPaths: []string{},
		},
		"depth first with sorted siblings": {
			files: []string{
				"z.frag",
				"a.vert",
				"b/c/deep.comp",
				"b/a.geom",
				"c.txt",
			},
			expectedPaths: []string{
				"a.vert",
				"b/a.geom",
				"b/c/deep.comp",
				"c.txt",
				"z.frag",
			},
		},
		"excluded files and directories": {
			files: []string{
				"a.vert",
				"vendor/lib.frag",
				"vendor/nested/lib.vert",
				"ui/wip.frag",
				"ui/button.frag",
			},
			exclude: []string{"vendor", "**/wip.*"},
			expectedPaths: []string{
				"a.vert",
				"ui/button.frag",
			},
		},
	}

	for tn, tc := range tests {
		t.Run(tn, func(t *testing.T) {
			root := createTree(t, tc.files...)

			opts := nullOptions()
			opts.Exclude = tc.exclude

			entries, err := Walk(root, opts)
			require.NoError(t, err)

			assert.Equal(t, tc.expectedPaths, relPaths(t, root, entries))
		})
	}
}

func TestWalkIsDeterministic(t *testing.T) {
	root := createTree(t, "b/x.vert", "a/y.frag", "c.comp")

	first, err := Walk(root, nullOptions())
	require.NoError(t, err)

	second, err := Walk(root, nullOptions())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestWalkSkipDirs(t *testing.T) {
	root := createTree(t, "a.vert", "bin/a.vert.spv", "bin/sub/b.frag.spv", "sub/b.frag")

	opts := nullOptions()
	opts.SkipDirs = []string{filepath.Join(root, "bin")}

	entries, err := Walk(root, opts)
	require.NoError(t, err)

	assert.Equal(t, []string{"a.vert", "sub/b.frag"}, relPaths(t, root, entries))
}

func TestWalkSkipDirsDoesNotSkipRoot(t *testing.T) {
	root := createTree(t, "a.vert")

	opts := nullOptions()
	opts.SkipDirs = []string{root}

	entries, err := Walk(root, opts)
	require.NoError(t, err)

	assert.Equal(t, []string{"a.vert"}, relPaths(t, root, entries))
}

func TestWalkInvalidExcludePattern(t *testing.T) {
	root := createTree(t, "a.vert")

	opts := nullOptions()
	opts.Exclude = []string{"[unterminated"}

	_, err := Walk(root, opts)
	assert.ErrorContains(t, err, "invalid exclude pattern")
}

func TestWalkRootErrors(t *testing.T) {
	tests := map[string]struct {
		root          func(t *testing.T) string
		expectedError error
	}{
		"missing root": {
			root: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "shaders")
			},
			expectedError: &common.NotFoundError{},
		},
		"root is a file": {
			root: func(t *testing.T) string {
				return filepath.Join(createTree(t, "a.vert"), "a.vert")
			},
			expectedError: &common.NotFoundError{},
		},
		"unreadable root": {
			root: func(t *testing.T) string {
				helperstest.SkipIfPrivileged(t)

				root := createTree(t, "a.vert")
				require.NoError(t, os.Chmod(root, 0o000))
				t.Cleanup(func() { _ = os.Chmod(root, 0o755) })

				return root
			},
			expectedError: &common.PermissionError{},
		},
	}

	for tn, tc := range tests {
		t.Run(tn, func(t *testing.T) {
			entries, err := Walk(tc.root(t), nullOptions())

			assert.ErrorIs(t, err, tc.expectedError)
			assert.Nil(t, entries)
		})
	}
}

func TestWalkSkipsUnreadableNestedDirectory(t *testing.T) {
	helperstest.SkipIfPrivileged(t)

	root := createTree(t, "a.vert", "locked/b.frag", "z.comp")

	locked := filepath.Join(root, "locked")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	logger, hook := test.NewNullLogger()

	entries, err := Walk(root, Options{Logger: logger})
	require.NoError(t, err)

	assert.Equal(t, []string{"a.vert", "z.comp"}, relPaths(t, root, entries))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.ErrorIs(t, entry.Data[logrus.ErrorKey].(error), &common.PermissionError{})
}

func TestWalkSymlinks(t *testing.T) {
	helperstest.SkipOnOS(t, helperstest.OSWindows)

	root := createTree(t, "a/x.vert", "shared/y.frag")

	// cycle back to the root and a link to a directory outside of it
	require.NoError(t, os.Symlink(root, filepath.Join(root, "a", "loop")))

	outside := createTree(t, "ext.comp")
	require.NoError(t, os.Symlink(outside, filepath.Join(root, "b-outside")))

	require.NoError(t, os.Symlink(filepath.Join(root, "shared", "y.frag"), filepath.Join(root, "link.frag")))
	require.NoError(t, os.Symlink(filepath.Join(root, "missing"), filepath.Join(root, "dangling.vert")))

	entries, err := Walk(root, nullOptions())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"a/x.vert",
		"b-outside/ext.comp",
		"link.frag",
		"shared/y.frag",
	}, relPaths(t, root, entries))
}

func TestWalkIncludeDirs(t *testing.T) {
	root := createTree(t, "a/b/c.vert", "a/d.frag", "bin/x.spv", "e.comp")

	opts := nullOptions()
	opts.IncludeDirs = true
	opts.SkipDirs = []string{filepath.Join(root, "bin")}

	entries, err := Walk(root, opts)
	require.NoError(t, err)

	var dirs, files []string
	for _, e := range entries {
		rel, err := filepath.Rel(root, e.Path)
		require.NoError(t, err)

		if e.IsDir {
			dirs = append(dirs, filepath.ToSlash(rel))
			continue
		}
		files = append(files, filepath.ToSlash(rel))
	}

	assert.Equal(t, []string{"a", "a/b"}, dirs)
	assert.Equal(t, []string{"a/b/c.vert", "a/d.frag", "e.comp"}, files)
	assert.True(t, entries[0].IsDir)
}
