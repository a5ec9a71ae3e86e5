// Package render turns decoded msgpack values into text for the terminal.
package render

import (
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// Mode selects how a value is printed.
type Mode string

const (
	ModeText Mode = "text"
	ModeJSON Mode = "json"
)

// ParseMode validates s as an output mode.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeText, ModeJSON:
		return m, nil
	}
	return "", errors.Errorf("unknown output mode %q (want %q or %q)", s, ModeText, ModeJSON)
}

// Render formats v according to mode.
func Render(v interface{}, mode Mode) (string, error) {
	if mode == ModeJSON {
		b, err := JSON(v)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	return Text(v), nil
}

// Text is the default representation: strings and byte slices as-is,
// anything else the way fmt prints it.
func Text(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	case nil:
		return "nil"
	}
	return fmt.Sprintf("%v", v)
}

// JSON marshals v after converting msgpack-only shapes (non-string map keys,
// byte slices) into something JSON can carry.
func JSON(v interface{}) ([]byte, error) {
	b, err := json.Marshal(Normalize(v))
	if err != nil {
		return nil, errors.Wrap(err, "marshal value as json")
	}
	return b, nil
}

// Normalize recursively rewrites map[interface{}]interface{} into
// map[string]interface{} and []byte into string.
func Normalize(v interface{}) interface{} {
	switch t := v.(type) {
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[keyString(k)] = Normalize(val)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[k] = Normalize(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, val := range t {
			out[i] = Normalize(val)
		}
		return out
	case []byte:
		return string(t)
	}
	return v
}

func keyString(k interface{}) string {
	switch t := k.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	}
	return fmt.Sprint(k)
}

// FromJSON parses a JSON document into a value suitable for msgpack
// encoding. Integral numbers become int64 so they round-trip as msgpack ints.
func FromJSON(doc string) (interface{}, error) {
	dec := json.NewDecoder(strings.NewReader(doc))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, errors.Wrap(err, "parse json value")
	}
	return fromJSONNumbers(v), nil
}

func fromJSONNumbers(v interface{}) interface{} {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case map[string]interface{}:
		for k, val := range t {
			t[k] = fromJSONNumbers(val)
		}
		return t
	case []interface{}:
		for i, val := range t {
			t[i] = fromJSONNumbers(val)
		}
		return t
	}
	return v
}
