// Package textcodec decodes file content under a declared text encoding and
// encodes rewritten content back to it.
//
// Decoding is strict: content that does not round-trip through the declared
// encoding is reported as a *DecodeError instead of being silently repaired
// with replacement characters.
package textcodec

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// DefaultEncoding is used when no encoding name is configured.
const DefaultEncoding = "utf-8"

// DecodeError reports content that is not valid text under an encoding.
type DecodeError struct {
	Encoding string
	Offset   int
	Byte     byte
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cannot decode byte 0x%02x at offset %d as %s", e.Byte, e.Offset, e.Encoding)
}

// Codec converts between raw file bytes and Go strings.
type Codec struct {
	name string
	enc  encoding.Encoding
}

// Lookup returns the codec for an encoding label as defined by the WHATWG
// Encoding Standard ("utf-8", "gbk", "big5", "shift_jis", ...).
func Lookup(name string) (*Codec, error) {
	if strings.TrimSpace(name) == "" {
		name = DefaultEncoding
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	canonical, err := htmlindex.Name(enc)
	if err != nil {
		canonical = strings.ToLower(name)
	}

	return &Codec{name: canonical, enc: enc}, nil
}

// UTF8 returns the default codec.
func UTF8() *Codec {
	c, _ := Lookup(DefaultEncoding)
	return c
}

// Name returns the canonical encoding name.
func (c *Codec) Name() string {
	return c.name
}

func (c *Codec) isUTF8() bool {
	return c.name == DefaultEncoding
}

// Decode converts data to a string, returning a *DecodeError when data is not
// valid under the codec's encoding.
func (c *Codec) Decode(data []byte) (string, error) {
	if c.isUTF8() {
		if off := invalidUTF8Offset(data); off >= 0 {
			return "", &DecodeError{Encoding: c.name, Offset: off, Byte: data[off]}
		}
		return string(data), nil
	}

	decoded, err := c.enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", &DecodeError{Encoding: c.name, Offset: 0, Byte: firstByte(data)}
	}

	// x/text decoders substitute U+FFFD for invalid input; a lossless
	// round trip is the only reliable validity check.
	encoded, err := c.enc.NewEncoder().Bytes(decoded)
	if err != nil || !bytes.Equal(encoded, data) {
		off := firstDifference(encoded, data)
		return "", &DecodeError{Encoding: c.name, Offset: off, Byte: data[off]}
	}

	return string(decoded), nil
}

// Encode converts s back to the codec's encoding.
func (c *Codec) Encode(s string) ([]byte, error) {
	if c.isUTF8() {
		return []byte(s), nil
	}

	out, err := c.enc.NewEncoder().String(s)
	if err != nil {
		return nil, fmt.Errorf("cannot encode content as %s: %w", c.name, err)
	}
	return []byte(out), nil
}

func invalidUTF8Offset(data []byte) int {
	if utf8.Valid(data) {
		return -1
	}
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return -1
}

func firstDifference(a, b []byte) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return i
		}
	}
	if len(b) == 0 {
		return 0
	}
	if len(a) < len(b) {
		return len(a)
	}
	return len(b) - 1
}

func firstByte(data []byte) byte {
	if len(data) == 0 {
		return 0
	}
	return data[0]
}
