package forest

import (
	"errors"
	"fmt"
	"strings"
)

// Dialect turns raw node text into a payload and renders it back.
// Render(Parse(raw)) must produce text that Parse accepts again.
type Dialect[T any] interface {
	Parse(raw string) (T, error)
	Render(content T) string
}

// SimpleDialect keeps node content as the raw string.
type SimpleDialect struct{}

func (SimpleDialect) Parse(raw string) (string, error) {
	return raw, nil
}

func (SimpleDialect) Render(content string) string {
	return content
}

// Pair is the payload of KeyValueDialect.
type Pair struct {
	Key   string
	Value string
}

// KeyValueDialect parses "key=value" content. The key must be non-empty;
// the value may be empty.
type KeyValueDialect struct{}

var errMissingSeparator = errors.New("missing '=' separator")

func (KeyValueDialect) Parse(raw string) (Pair, error) {
	key, value, ok := strings.Cut(raw, "=")
	if !ok {
		return Pair{}, errMissingSeparator
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return Pair{}, fmt.Errorf("empty key in %q", raw)
	}
	return Pair{Key: key, Value: strings.TrimSpace(value)}, nil
}

func (KeyValueDialect) Render(p Pair) string {
	return p.Key + "=" + p.Value
}
