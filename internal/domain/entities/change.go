package entities

import (
	"encoding/base64"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Encoding is how a Change's bytes travel to the blob endpoint.
type Encoding string

const (
	EncodingUTF8   Encoding = "utf-8"
	EncodingBase64 Encoding = "base64"
)

// Change replaces (or creates) one file in the next commit.
type Change struct {
	Path     string
	Content  []byte
	Encoding Encoding
}

// Normalized returns the change with a cleaned path and a concrete encoding.
func (c Change) Normalized() Change {
	c.Path = strings.TrimPrefix(strings.TrimSpace(c.Path), "/")
	if c.Encoding == "" {
		c.Encoding = EncodingBase64
	}
	return c
}

// WireContent is the blob payload for the change's encoding.
func (c Change) WireContent() string {
	if c.Encoding == EncodingUTF8 {
		return string(c.Content)
	}
	return base64.StdEncoding.EncodeToString(c.Content)
}

// NormalizeChanges validates a change set and returns its normalized copy.
// Empty sets, blank paths, ".." segments, unknown encodings and duplicate
// paths are rejected, as is utf-8 content that is not valid UTF-8 (the API would
// store replacement characters instead of the bytes).
func NormalizeChanges(changes []Change) ([]Change, error) {
	if len(changes) == 0 {
		return nil, fmt.Errorf("%w: change set is empty", ErrValidation)
	}

	seen := make(map[string]struct{}, len(changes))
	normalized := make([]Change, 0, len(changes))
	for i, raw := range changes {
		change := raw.Normalized()
		if change.Path == "" {
			return nil, fmt.Errorf("%w: changes[%d] has no path", ErrValidation, i)
		}
		for _, segment := range strings.Split(change.Path, "/") {
			if segment == "" || segment == "." || segment == ".." {
				return nil, fmt.Errorf("%w: changes[%d] has an invalid path %q", ErrValidation, i, raw.Path)
			}
		}
		if change.Encoding != EncodingUTF8 && change.Encoding != EncodingBase64 {
			return nil, fmt.Errorf("%w: changes[%d] has unsupported encoding %q", ErrValidation, i, change.Encoding)
		}
		if change.Encoding == EncodingUTF8 && !utf8.Valid(change.Content) {
			return nil, fmt.Errorf("%w: changes[%d] (%q) is not valid UTF-8, send it as base64",
				ErrValidation, i, change.Path)
		}
		if _, dup := seen[change.Path]; dup {
			return nil, fmt.Errorf("%w: path %q appears more than once", ErrValidation, change.Path)
		}
		seen[change.Path] = struct{}{}
		normalized = append(normalized, change)
	}
	return normalized, nil
}
