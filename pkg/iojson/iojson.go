// Package iojson reads and writes the JSON documents exchanged by the
// non-interactive commands.
package iojson

import (
	"encoding/json"
	"fmt"
	"io"
)

// Error is written to the error stream when a value cannot be encoded.
type Error struct {
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

func encodeFailure(msg string, err error) []byte {
	bits, _ := json.Marshal(Error{
		Message: msg,
		Data:    map[string]any{"json_error": err.Error()},
	})
	return bits
}

// WriteWith writes obj to w as indented JSON. If obj cannot be encoded an
// Error document goes to ew instead.
func WriteWith(w io.Writer, ew io.Writer, obj any) error {
	bits, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		_, err = fmt.Fprintln(ew, string(encodeFailure("error marshaling in iojson.Write", err)))
		return err
	}

	_, err = fmt.Fprintln(w, string(bits))
	return err
}

// WriteLine writes obj as a single line of compact JSON.
func WriteLine(w io.Writer, obj any) error {
	bits, err := json.Marshal(obj)
	if err != nil {
		return fmt.Errorf("marshal json line: %w", err)
	}

	_, err = fmt.Fprintln(w, string(bits))
	return err
}
