package replacer

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"

	"github.com/dbsmedya/i18nkit/internal/textcodec"
)

// Outcome describes what Rewrite did to a file.
type Outcome int

const (
	Unchanged Outcome = iota
	Rewritten
)

func (o Outcome) String() string {
	switch o {
	case Rewritten:
		return "rewritten"
	default:
		return "unchanged"
	}
}

// FileError records the step at which a single file failed.
type FileError struct {
	Op   string // read, decode, encode or write
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// Apply performs a literal replacement of every pair, in order, on content.
func Apply(content string, pairs []Pair) string {
	for _, p := range pairs {
		content = strings.ReplaceAll(content, p.Key, p.Value)
	}
	return content
}

// Rewriter applies a mapping to files in place.
type Rewriter struct {
	fs    afero.Fs
	pairs []Pair
	codec *textcodec.Codec
}

// NewRewriter creates a Rewriter. A nil codec means UTF-8.
func NewRewriter(fs afero.Fs, pairs []Pair, codec *textcodec.Codec) *Rewriter {
	if codec == nil {
		codec = textcodec.UTF8()
	}
	return &Rewriter{fs: fs, pairs: pairs, codec: codec}
}

// Rewrite replaces keys in the file at path. The file is written back, with
// its original permissions, only when it decoded cleanly and its content
// changed; on any error before the write it is left untouched.
func (r *Rewriter) Rewrite(path string) (Outcome, error) {
	info, err := r.fs.Stat(path)
	if err != nil {
		return Unchanged, &FileError{Op: "read", Path: path, Err: err}
	}
	data, err := afero.ReadFile(r.fs, path)
	if err != nil {
		return Unchanged, &FileError{Op: "read", Path: path, Err: err}
	}

	content, err := r.codec.Decode(data)
	if err != nil {
		return Unchanged, &FileError{Op: "decode", Path: path, Err: err}
	}

	replaced := Apply(content, r.pairs)
	if replaced == content {
		return Unchanged, nil
	}

	out, err := r.codec.Encode(replaced)
	if err != nil {
		return Unchanged, &FileError{Op: "encode", Path: path, Err: err}
	}
	if err := afero.WriteFile(r.fs, path, out, info.Mode().Perm()); err != nil {
		return Unchanged, &FileError{Op: "write", Path: path, Err: err}
	}
	return Rewritten, nil
}
