// Package scanner finds untranslated text in source files: it walks a tree,
// strips slash-style comments from each candidate file and reports files that
// still contain characters from the target ranges.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/afero"

	"github.com/dbsmedya/i18nkit/internal/charrange"
	"github.com/dbsmedya/i18nkit/internal/config"
	"github.com/dbsmedya/i18nkit/internal/logger"
	"github.com/dbsmedya/i18nkit/internal/textcodec"
	"github.com/dbsmedya/i18nkit/internal/walker"
)

// ErrMatchesFound is returned by callers that turn a positive scan into a failure.
var ErrMatchesFound = errors.New("target characters found")

// previewWidth is the display width of a --show-lines preview.
const previewWidth = 100

// Result summarizes a scan.
type Result struct {
	FilesScanned int
	Matches      []string
	ReadErrors   int
}

// Found reports whether any scanned file matched.
func (r Result) Found() bool {
	return len(r.Matches) > 0
}

// Scanner checks every eligible file below cfg.Root.
type Scanner struct {
	fs      afero.Fs
	cfg     config.ScanConfig
	matcher *Matcher
	codec   *textcodec.Codec
	log     *logger.Logger
	out     io.Writer
}

// New creates a Scanner. Diagnostic lines are written to out.
func New(fs afero.Fs, cfg config.ScanConfig, log *logger.Logger, out io.Writer) (*Scanner, error) {
	ranges, err := charrange.ParseAll(cfg.Ranges)
	if err != nil {
		return nil, fmt.Errorf("failed to parse character ranges: %w", err)
	}
	matcher, err := NewMatcher(ranges...)
	if err != nil {
		return nil, err
	}
	codec, err := textcodec.Lookup(cfg.Encoding)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.NewNop()
	}

	return &Scanner{
		fs:      fs,
		cfg:     cfg,
		matcher: matcher,
		codec:   codec,
		log:     log,
		out:     out,
	}, nil
}

// Scan walks the tree and prints one line per matching file. An error is
// returned only when the walk itself fails; unreadable files count as clean.
func (s *Scanner) Scan(ctx context.Context) (Result, error) {
	var result Result

	w := walker.New(s.fs, s.cfg.Root,
		walker.WithExcludedDirs(s.cfg.Excludes...),
		walker.WithExtensions(s.cfg.Extensions...),
		walker.WithLogger(s.log),
	)

	s.log.Debugw("Starting scan",
		"root", w.Root(),
		"extensions", s.cfg.Extensions,
		"excludes", s.cfg.Excludes,
		"ranges", s.matcher.Ranges(),
		"encoding", s.codec.Name())

	for rec, err := range w.Files(ctx) {
		if err != nil {
			return result, err
		}

		result.FilesScanned++
		found, lines, err := s.CheckFile(rec.Path)
		if err != nil {
			result.ReadErrors++
			s.log.WithFile(rec.Path).Debugw("Failed to read file", "error", err)
			fmt.Fprintf(s.out, "Error reading file %s: %v\n", rec.Path, err)
			continue
		}
		if !found {
			continue
		}

		result.Matches = append(result.Matches, rec.Path)
		fmt.Fprintf(s.out, "Chinese characters found in: %s\n", rec.Path)
		if s.cfg.ShowLines {
			for _, lm := range lines {
				fmt.Fprintf(s.out, "  %d: %s\n", lm.Line, preview(lm.Text))
			}
		}
	}

	s.log.Debugw("Scan complete",
		"files", result.FilesScanned,
		"matches", len(result.Matches),
		"read_errors", result.ReadErrors)

	return result, nil
}

// CheckFile reads and decodes a single file and tests its comment-free content.
// Matching lines are only collected when ShowLines is enabled.
func (s *Scanner) CheckFile(path string) (bool, []LineMatch, error) {
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return false, nil, err
	}
	content, err := s.codec.Decode(data)
	if err != nil {
		return false, nil, err
	}

	if !s.matcher.Match(StripComments(content)) {
		return false, nil, nil
	}
	if !s.cfg.ShowLines {
		return true, nil, nil
	}
	return true, s.matcher.FindLines(stripCommentsKeepLines(content)), nil
}

func preview(line string) string {
	return runewidth.Truncate(strings.TrimSpace(line), previewWidth, "...")
}
