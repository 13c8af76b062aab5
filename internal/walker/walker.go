// Package walker discovers candidate files under a root directory, pruning
// excluded directory names at every depth before descending into them.
package walker

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/afero"

	"github.com/dbsmedya/i18nkit/internal/logger"
)

// ErrNotDirectory is returned when the walk root exists but is not a directory.
var ErrNotDirectory = errors.New("not a directory")

// errStopWalk ends afero.Walk early once the consumer stops ranging.
var errStopWalk = errors.New("walk stopped by consumer")

// FileRecord is a file discovered during traversal.
type FileRecord struct {
	Path string
}

// Walker enumerates files below a root on an afero filesystem.
type Walker struct {
	fs                 afero.Fs
	root               string
	excludedDirs       map[string]struct{}
	extensions         []string
	excludedExtensions []string
	log                *logger.Logger
}

// Option configures a Walker.
type Option func(*Walker)

// WithExcludedDirs prunes every directory whose name exactly matches one of names.
func WithExcludedDirs(names ...string) Option {
	return func(w *Walker) {
		for _, n := range names {
			w.excludedDirs[n] = struct{}{}
		}
	}
}

// WithExtensions keeps only files whose name ends with one of exts.
// Without this option every file is kept.
func WithExtensions(exts ...string) Option {
	return func(w *Walker) {
		w.extensions = append(w.extensions, exts...)
	}
}

// WithExcludedExtensions drops files whose last extension is one of exts.
func WithExcludedExtensions(exts ...string) Option {
	return func(w *Walker) {
		w.excludedExtensions = append(w.excludedExtensions, exts...)
	}
}

// WithLogger sets the logger used for skipped paths.
func WithLogger(log *logger.Logger) Option {
	return func(w *Walker) {
		if log != nil {
			w.log = log
		}
	}
}

// New creates a Walker rooted at root.
// Panics if fs is nil.
func New(fs afero.Fs, root string, opts ...Option) *Walker {
	if fs == nil {
		panic("fs cannot be nil")
	}
	w := &Walker{
		fs:           fs,
		root:         root,
		excludedDirs: make(map[string]struct{}),
		log:          logger.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Root returns the traversal root.
func (w *Walker) Root() string {
	return w.root
}

// Files returns a lazy sequence of eligible files. A failure to open the root,
// or context cancellation, is yielded once as an error and ends the sequence.
// Unreadable paths below the root are logged and skipped.
func (w *Walker) Files(ctx context.Context) iter.Seq2[FileRecord, error] {
	return func(yield func(FileRecord, error) bool) {
		info, err := w.fs.Stat(w.root)
		if err != nil {
			yield(FileRecord{}, fmt.Errorf("failed to open root %s: %w", w.root, err))
			return
		}
		if !info.IsDir() {
			yield(FileRecord{}, fmt.Errorf("root %s: %w", w.root, ErrNotDirectory))
			return
		}

		err = afero.Walk(w.fs, w.root, func(path string, info fs.FileInfo, err error) error {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}

			if err != nil {
				if path == w.root {
					return fmt.Errorf("failed to read root %s: %w", w.root, err)
				}
				w.log.Warnw("Skipping unreadable path", "path", path, "error", err)
				return nil
			}

			if info.IsDir() {
				if path != w.root && w.isExcludedDir(info.Name()) {
					w.log.Debugw("Pruning excluded directory", "path", path)
					return filepath.SkipDir
				}
				return nil
			}

			if !w.accepts(info.Name()) {
				return nil
			}

			if !yield(FileRecord{Path: path}, nil) {
				return errStopWalk
			}
			return nil
		})

		if err != nil && !errors.Is(err, errStopWalk) {
			yield(FileRecord{}, err)
		}
	}
}

// Collect drains Files into a slice, stopping at the first error.
func (w *Walker) Collect(ctx context.Context) ([]FileRecord, error) {
	var files []FileRecord
	for rec, err := range w.Files(ctx) {
		if err != nil {
			return nil, err
		}
		files = append(files, rec)
	}
	return files, nil
}

func (w *Walker) isExcludedDir(name string) bool {
	_, ok := w.excludedDirs[name]
	return ok
}

// accepts applies the extension filters to a file name. Excluded extensions
// must equal the last extension; leading dots do not start one, so ".png" has
// none. Included extensions are plain suffixes.
func (w *Walker) accepts(name string) bool {
	if ext := filepath.Ext(strings.TrimLeft(name, ".")); ext != "" {
		if slices.Contains(w.excludedExtensions, ext) {
			return false
		}
	}
	if len(w.extensions) == 0 {
		return true
	}
	for _, ext := range w.extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
