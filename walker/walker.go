// Package walker enumerates the files below a shader root.
package walker

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/sirupsen/logrus"

	"gitlab.com/gitlab-org/buildshaders/common"
)

var errNotADirectory = errors.New("not a directory")

type Options struct {
	// Exclude holds doublestar patterns matched against slash separated paths
	// relative to the root. Matching files are dropped and matching
	// directories are not descended.
	Exclude []string
	// SkipDirs are never descended.
	SkipDirs []string
	// IncludeDirs reports walked directories, other than the root, ahead of
	// their contents.
	IncludeDirs bool

	Logger logrus.FieldLogger
}

type walker struct {
	opts   Options
	logger logrus.FieldLogger

	skip    map[string]struct{}
	visited map[string]struct{}

	entries []common.FileEntry
}

// Walk returns every file below root, depth first, with siblings in name
// order. Symlinks are followed and each real directory is walked once.
//
// A missing root, or one that is not a directory, is a *common.NotFoundError;
// an unreadable root is a *common.PermissionError. Unreadable directories
// below the root are logged and skipped.
func Walk(root string, opts Options) ([]common.FileEntry, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, common.NewPathError(root, err)
	}
	if !info.IsDir() {
		return nil, &common.NotFoundError{Path: root, Err: errNotADirectory}
	}

	for _, pattern := range opts.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern %q", pattern)
		}
	}

	w := &walker{
		opts:    opts,
		logger:  opts.Logger,
		skip:    make(map[string]struct{}, len(opts.SkipDirs)),
		visited: make(map[string]struct{}),
	}
	if w.logger == nil {
		w.logger = logrus.StandardLogger()
	}

	for _, dir := range opts.SkipDirs {
		w.skip[realPath(dir)] = struct{}{}
	}

	if err := w.walkDir(root, "", true); err != nil {
		return nil, err
	}

	return w.entries, nil
}

func (w *walker) walkDir(dir, rel string, isRoot bool) error {
	resolved := realPath(dir)
	if _, ok := w.visited[resolved]; ok {
		w.logger.WithField("path", dir).Debugln("Skipping already walked directory")
		return nil
	}
	w.visited[resolved] = struct{}{}

	if _, ok := w.skip[resolved]; ok && !isRoot {
		return nil
	}

	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		err = common.NewPathError(dir, err)
		if isRoot {
			return err
		}

		w.logger.WithError(err).Warningln("Skipping unreadable directory")
		return nil
	}

	for _, entry := range dirEntries {
		entryPath := filepath.Join(dir, entry.Name())
		entryRel := path.Join(rel, entry.Name())

		isDir, ok := w.classify(entryPath, entry)
		if !ok || w.excluded(entryRel) {
			continue
		}

		if isDir {
			if w.opts.IncludeDirs && w.walkable(entryPath) {
				w.entries = append(w.entries, common.FileEntry{Path: entryPath, IsDir: true})
			}

			if err := w.walkDir(entryPath, entryRel, false); err != nil {
				return err
			}
			continue
		}

		w.entries = append(w.entries, common.FileEntry{Path: entryPath})
	}

	return nil
}

// classify resolves symlinks and reports whether entry is a directory. ok is
// false for entries that are neither regular files nor directories.
func (w *walker) classify(entryPath string, entry fs.DirEntry) (isDir bool, ok bool) {
	mode := entry.Type()
	if mode&fs.ModeSymlink != 0 {
		info, err := os.Stat(entryPath)
		if err != nil {
			w.logger.WithError(err).WithField("path", entryPath).Debugln("Skipping dangling symlink")
			return false, false
		}
		mode = info.Mode().Type()
	}

	switch {
	case mode.IsDir():
		return true, true
	case mode.IsRegular():
		return false, true
	default:
		return false, false
	}
}

// walkable reports whether dir is going to be walked.
func (w *walker) walkable(dir string) bool {
	resolved := realPath(dir)

	_, visited := w.visited[resolved]
	_, skipped := w.skip[resolved]

	return !visited && !skipped
}

func (w *walker) excluded(rel string) bool {
	for _, pattern := range w.opts.Exclude {
		if matched, _ := doublestar.Match(pattern, rel); matched {
			return true
		}
	}

	return false
}

func realPath(p string) string {
	if resolved, err := filepath.EvalSymlinks(p); err == nil {
		p = resolved
	}

	if abs, err := filepath.Abs(p); err == nil {
		p = abs
	}

	return filepath.Clean(p)
}
