package commands

import (
	"context"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"gitlab.com/gitlab-org/buildshaders/common"
	"gitlab.com/gitlab-org/buildshaders/walker"
)

type WatchCommand struct {
	configOptions
}

func (c *WatchCommand) Execute(cliCtx *cli.Context) {
	setup, err := c.setup(cliCtx)
	if err != nil {
		logrus.WithError(err).Fatalln("Failed to set up the build")
	}

	if err := setup.compiler.Resolve(); err != nil {
		logrus.WithError(err).Fatalln("Shader compiler not found")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := watchShaders(ctx, setup, c.output()); err != nil {
		logrus.WithError(err).Fatalln("Watching failed")
	}
}

// shaderWatcher recompiles shaders changed below the root. Changes are
// collected until no event arrived for common.WatchDebounceInterval.
type shaderWatcher struct {
	setup   *buildSetup
	out     io.Writer
	watcher *fsnotify.Watcher
	logger  logrus.FieldLogger

	watched   map[string]struct{}
	pending   map[string]struct{}
	lastEvent time.Time
}

// watchShaders builds everything below the root once and then rebuilds
// changed shaders until ctx is done.
func watchShaders(ctx context.Context, setup *buildSetup, out io.Writer) error {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsWatcher.Close()

	w := &shaderWatcher{
		setup:   setup,
		out:     out,
		watcher: fsWatcher,
		logger:  logrus.WithField("root", setup.root),
		watched: make(map[string]struct{}),
		pending: make(map[string]struct{}),
	}

	files, err := w.refresh()
	if err != nil {
		return err
	}

	summary, err := setup.driver.Build(ctx, setup.root, files)
	if err != nil {
		return err
	}
	printSummary(out, summary)

	w.logger.Infoln("Watching for changes")

	return w.run(ctx)
}

func (w *shaderWatcher) run(ctx context.Context) error {
	ticker := time.NewTicker(common.WatchDebounceInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.WithError(err).Warningln("Watcher error")

		case <-ticker.C:
			if len(w.pending) == 0 || time.Since(w.lastEvent) < common.WatchDebounceInterval {
				continue
			}

			if err := w.rebuild(ctx); err != nil {
				w.logger.WithError(err).Errorln("Rebuilding failed")
			}
		}
	}
}

func (w *shaderWatcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}

	w.logger.WithField("path", event.Name).Debugln("Change detected")

	w.pending[filepath.Clean(event.Name)] = struct{}{}
	w.lastEvent = time.Now()
}

// refresh walks the root, watches every directory not watched yet and returns
// the files found.
func (w *shaderWatcher) refresh() ([]common.FileEntry, error) {
	opts := w.setup.walkOptions
	opts.IncludeDirs = true

	entries, err := walker.Walk(w.setup.root, opts)
	if err != nil {
		return nil, err
	}

	w.watch(w.setup.root)

	files := make([]common.FileEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir {
			w.watch(entry.Path)
			continue
		}

		files = append(files, entry)
	}

	return files, nil
}

func (w *shaderWatcher) watch(dir string) {
	dir = filepath.Clean(dir)
	if _, ok := w.watched[dir]; ok {
		return
	}

	if err := w.watcher.Add(dir); err != nil {
		w.logger.WithError(err).WithField("path", dir).Warningln("Failed to watch directory")
		return
	}

	w.watched[dir] = struct{}{}
}

// rebuild compiles the files changed since the last rebuild, including all
// files of newly created directories.
func (w *shaderWatcher) rebuild(ctx context.Context) error {
	files, err := w.refresh()
	if err != nil {
		return err
	}

	var changed []common.FileEntry
	for _, file := range files {
		if w.isPending(file.Path) {
			changed = append(changed, file)
		}
	}
	clear(w.pending)

	jobs, err := w.setup.driver.Plan(w.setup.root, changed)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		return nil
	}

	printSummary(w.out, w.setup.driver.BuildJobs(ctx, jobs))

	return nil
}

func (w *shaderWatcher) isPending(path string) bool {
	path = filepath.Clean(path)
	if _, ok := w.pending[path]; ok {
		return true
	}

	for p := range w.pending {
		if strings.HasPrefix(path, p+string(filepath.Separator)) {
			return true
		}
	}

	return false
}

func init() {
	common.RegisterCommand("watch", "Build all shaders below ROOT, then rebuild them as they change", &WatchCommand{})
}
