package replacer

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/spf13/afero"
	"github.com/tidwall/gjson"
)

// ErrInvalidMapping is returned for mapping files that are not a JSON object of strings.
var ErrInvalidMapping = errors.New("invalid mapping")

// Pair is a single key to value substitution.
type Pair struct {
	Key   string
	Value string
}

// LoadMapping reads a JSON object from path and returns its entries sorted by
// descending key length.
func LoadMapping(fs afero.Fs, path string) ([]Pair, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping file: %w", err)
	}

	pairs, err := ParseMapping(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return pairs, nil
}

// ParseMapping decodes a JSON object of string values. Entries keep the order
// of first appearance; a repeated key takes its last value. The result is
// sorted with SortPairs.
func ParseMapping(data []byte) ([]Pair, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: malformed JSON", ErrInvalidMapping)
	}

	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return nil, fmt.Errorf("%w: top-level value must be an object, got %s", ErrInvalidMapping, kind(doc))
	}

	entries := orderedmap.NewOrderedMap[string, string]()
	var parseErr error
	doc.ForEach(func(key, value gjson.Result) bool {
		if key.String() == "" {
			parseErr = fmt.Errorf("%w: empty key", ErrInvalidMapping)
			return false
		}
		if value.Type != gjson.String {
			parseErr = fmt.Errorf("%w: value for key %q must be a string, got %s",
				ErrInvalidMapping, key.String(), kind(value))
			return false
		}
		entries.Set(key.String(), value.String())
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	pairs := make([]Pair, 0, entries.Len())
	for el := entries.Front(); el != nil; el = el.Next() {
		pairs = append(pairs, Pair{Key: el.Key, Value: el.Value})
	}
	SortPairs(pairs)
	return pairs, nil
}

// SortPairs orders pairs by descending key length in code points so longer
// keys are substituted before keys that may be substrings of them. The sort
// is stable: keys of equal length keep their relative order.
func SortPairs(pairs []Pair) {
	slices.SortStableFunc(pairs, func(a, b Pair) int {
		return cmp.Compare(utf8.RuneCountInString(b.Key), utf8.RuneCountInString(a.Key))
	})
}

func kind(r gjson.Result) string {
	switch {
	case r.IsArray():
		return "array"
	case r.IsObject():
		return "object"
	default:
		return strings.ToLower(r.Type.String())
	}
}
