package iojson

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// ErrNoInput is returned by Read when no file was named and stdin is a
// terminal.
var ErrNoInput = errors.New("no input: pass --file or pipe a JSON document")

// FileReader decodes a JSON document of type T from the file named by its
// --file flag, or from stdin when the flag is unset. Unknown fields are
// rejected.
type FileReader[T any] struct {
	path  string
	stdin io.Reader
}

func (fr *FileReader[T]) Flag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:        "file",
		Aliases:     []string{"f"},
		Usage:       "read the document from a JSON file instead of stdin",
		TakesFile:   true,
		Destination: &fr.path,
	}
}

// Provided reports whether Read has something to decode.
func (fr *FileReader[T]) Provided() bool {
	if fr.path != "" || fr.stdin != nil {
		return true
	}
	return !term.IsTerminal(int(os.Stdin.Fd()))
}

func (fr *FileReader[T]) Read() (T, error) {
	var doc T

	src, closeSrc, err := fr.open()
	if err != nil {
		return doc, err
	}
	defer closeSrc()

	dec := json.NewDecoder(src)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return doc, fmt.Errorf("decode JSON: %w", err)
	}
	return doc, nil
}

func (fr *FileReader[T]) open() (io.Reader, func(), error) {
	switch {
	case fr.path != "":
		f, err := os.Open(fr.path)
		if err != nil {
			return nil, nil, fmt.Errorf("open %s: %w", fr.path, err)
		}
		return f, func() { _ = f.Close() }, nil
	case fr.stdin != nil:
		return fr.stdin, func() {}, nil
	case term.IsTerminal(int(os.Stdin.Fd())):
		return nil, nil, ErrNoInput
	default:
		return os.Stdin, func() {}, nil
	}
}
