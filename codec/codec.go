// Package codec centralizes record encoding.
//
// Segments are newline-delimited: every record must encode to exactly one
// line. Changing the codec of an existing store is safe as long as both codecs
// emit compact JSON, since readers only split on newlines.
package codec

import (
	"bytes"
	"errors"
	"fmt"
)

// ErrMultiline is returned when an encoded record contains a raw newline.
var ErrMultiline = errors.New("codec: encoded record spans multiple lines")

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json":
		return GoJSON{}, true
	default:
		return nil, false
	}
}

// EncodeLine encodes v as a single newline-terminated line.
// A nil codec selects Default.
func EncodeLine(c Codec, v any) ([]byte, error) {
	if c == nil {
		c = Default
	}
	b, err := c.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("codec %s: %w", c.Name(), err)
	}
	if bytes.IndexByte(b, '\n') >= 0 {
		return nil, ErrMultiline
	}
	return append(b, '\n'), nil
}

// DecodeLine decodes a line produced by EncodeLine. The trailing newline is optional.
func DecodeLine(c Codec, line []byte, v any) error {
	if c == nil {
		c = Default
	}
	return c.Unmarshal(bytes.TrimSuffix(line, []byte{'\n'}), v)
}
