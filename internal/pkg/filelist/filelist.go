// Package filelist reads the list of files a sender transfers.
//
// A list holds one path per line and ends with a line reading EOF. Trailing
// whitespace and control bytes are trimmed from every line.
package filelist

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// EOFToken is the line that ends a session.
const EOFToken = "EOF"

// Source yields list entries lazily. ok is false once the list is exhausted.
type Source interface {
	Next() (line string, ok bool, err error)
}

// Trim removes trailing bytes at or below the ASCII space.
func Trim(line string) string {
	return strings.TrimRightFunc(line, func(r rune) bool {
		return r <= 0x20
	})
}

// Scanner reads a list from an io.Reader.
type Scanner struct {
	scanner *bufio.Scanner
	closer  io.Closer
}

// New returns a Scanner reading from r.
func New(r io.Reader) *Scanner {
	return &Scanner{scanner: bufio.NewScanner(r)}
}

// Open returns a Scanner reading the list file at path. Close releases the file.
func Open(path string) (*Scanner, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open list %s failed", path)
	}
	s := New(f)
	s.closer = f
	return s, nil
}

// Next implements Source. Blank lines are skipped.
func (s *Scanner) Next() (string, bool, error) {
	for s.scanner.Scan() {
		line := Trim(s.scanner.Text())
		if line == "" {
			continue
		}
		return line, true, nil
	}
	if err := s.scanner.Err(); err != nil {
		return "", false, errors.Wrap(err, "scan list failed")
	}
	return "", false, nil
}

// Close closes the underlying file, if any.
func (s *Scanner) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// Lines is an in-memory Source.
type Lines []string

// Next implements Source.
func (l *Lines) Next() (string, bool, error) {
	for len(*l) > 0 {
		line := Trim((*l)[0])
		*l = (*l)[1:]
		if line != "" {
			return line, true, nil
		}
	}
	return "", false, nil
}
