// Package replacer substitutes translation keys with localized values across
// a repository, driven by a JSON mapping file.
package replacer

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/afero"

	"github.com/dbsmedya/i18nkit/internal/config"
	"github.com/dbsmedya/i18nkit/internal/logger"
	"github.com/dbsmedya/i18nkit/internal/textcodec"
	"github.com/dbsmedya/i18nkit/internal/walker"
)

// Summary counts what happened during a run.
type Summary struct {
	Total     int
	Rewritten int
	Unchanged int
	Skipped   int
}

// Replacer rewrites every eligible file below cfg.RepositoryPath.
type Replacer struct {
	fs    afero.Fs
	cfg   config.ReplaceConfig
	codec *textcodec.Codec
	log   *logger.Logger
	out   io.Writer
}

// New creates a Replacer. Diagnostic lines are written to out.
func New(fs afero.Fs, cfg config.ReplaceConfig, log *logger.Logger, out io.Writer) (*Replacer, error) {
	codec, err := textcodec.Lookup(cfg.Encoding)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.NewNop()
	}
	log = log.WithFields(map[string]interface{}{
		"mapping":  cfg.MappingFile,
		"encoding": codec.Name(),
	})
	return &Replacer{fs: fs, cfg: cfg, codec: codec, log: log, out: out}, nil
}

// Run loads the mapping, enumerates the files and rewrites them one by one.
// A mapping or traversal failure aborts the run before any file is touched.
// Per-file failures are printed and skipped. Writes are not rolled back if the
// context is cancelled part way.
func (r *Replacer) Run(ctx context.Context) (Summary, error) {
	var summary Summary

	pairs, err := LoadMapping(r.fs, r.cfg.MappingFile)
	if err != nil {
		return summary, fmt.Errorf("failed to load mapping: %w", err)
	}
	r.log.Debugw("Loaded mapping", "pairs", len(pairs))

	w := walker.New(r.fs, r.cfg.RepositoryPath,
		walker.WithExcludedDirs(r.cfg.ExcludeDirs...),
		walker.WithExcludedExtensions(r.cfg.ExcludeExtensions...),
		walker.WithLogger(r.log),
	)
	files, err := w.Collect(ctx)
	if err != nil {
		return summary, fmt.Errorf("failed to list files: %w", err)
	}

	summary.Total = len(files)
	fmt.Fprintf(r.out, "Total files: %d\n", summary.Total)

	rw := NewRewriter(r.fs, pairs, r.codec)
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		outcome, err := rw.Rewrite(f.Path)
		if err != nil {
			summary.Skipped++
			r.report(f.Path, err)
			continue
		}

		switch outcome {
		case Rewritten:
			summary.Rewritten++
			r.log.WithFile(f.Path).Infow("Rewrote file")
		default:
			summary.Unchanged++
		}
	}

	r.log.Debugw("Replace complete",
		"total", summary.Total,
		"rewritten", summary.Rewritten,
		"unchanged", summary.Unchanged,
		"skipped", summary.Skipped)

	return summary, nil
}

func (r *Replacer) report(path string, err error) {
	log := r.log.WithFile(path)

	var decodeErr *textcodec.DecodeError
	if errors.As(err, &decodeErr) {
		fmt.Fprintf(r.out, "UnicodeDecodeError: %s\n", path)
		log.Debugw("Skipping undecodable file", "error", decodeErr)
		return
	}
	log.Debugw("Skipping file", "error", err)

	var fileErr *FileError
	if errors.As(err, &fileErr) && (fileErr.Op == "write" || fileErr.Op == "encode") {
		fmt.Fprintf(r.out, "Error writing file %s: %v\n", path, fileErr.Err)
		return
	}
	if errors.As(err, &fileErr) {
		fmt.Fprintf(r.out, "Error reading file %s: %v\n", path, fileErr.Err)
		return
	}
	fmt.Fprintf(r.out, "Error reading file %s: %v\n", path, err)
}
