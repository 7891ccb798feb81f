package resultset

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrMissingDelimiter is returned for a line that has no delimiter when
// single-field lines are not allowed.
var ErrMissingDelimiter = errors.New("line has no field delimiter")

const DefaultDelimiter = '\t'

type Options struct {
	// Delimiter separates the identifier from the trailing fields. Zero means tab.
	Delimiter byte
	// AllowSingleField treats a line without a delimiter as a bare identifier.
	AllowSingleField bool
}

func (o Options) delimiter() byte {
	if o.Delimiter == 0 {
		return DefaultDelimiter
	}
	return o.Delimiter
}

// Field extracts the identifier from a single line. The line terminator
// ("\n" or "\r\n") is stripped first; nothing else is normalized.
func (o Options) Field(line string) (string, error) {
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")

	i := strings.IndexByte(line, o.delimiter())
	if i < 0 {
		if o.AllowSingleField {
			return line, nil
		}
		return "", ErrMissingDelimiter
	}
	return line[:i], nil
}

// ResultSet holds the identifiers of one result file in file order.
// Duplicates are kept; Contains answers from a hash index.
type ResultSet struct {
	ids   []string
	index map[string]struct{}
}

func New(ids ...string) *ResultSet {
	s := &ResultSet{index: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		s.add(id)
	}
	return s
}

func (s *ResultSet) add(id string) {
	s.ids = append(s.ids, id)
	s.index[id] = struct{}{}
}

func (s *ResultSet) Contains(id string) bool {
	_, ok := s.index[id]
	return ok
}

// IDs returns the identifiers in file order.
func (s *ResultSet) IDs() []string {
	return s.ids
}

func (s *ResultSet) Len() int {
	return len(s.ids)
}

// Missing returns the identifiers of other that are absent from s, in the
// order of other, duplicates included.
func (s *ResultSet) Missing(other *ResultSet) []string {
	var out []string
	for _, id := range other.ids {
		if !s.Contains(id) {
			out = append(out, id)
		}
	}
	return out
}

// Parse reads every line of r. name is used in error messages.
func Parse(r io.Reader, name string, opts Options) (*ResultSet, error) {
	s := New()
	err := scan(r, name, opts, func(id string) bool {
		s.add(id)
		return true
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Load parses the file at path.
func Load(path string, opts Options) (*ResultSet, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = fh.Close() }()

	return Parse(fh, path, opts)
}

// scan calls fn with the identifier of each line until fn returns false.
// Lines are read with bufio.Reader so that no line length limit applies.
func scan(r io.Reader, name string, opts Options, fn func(id string) bool) error {
	br := bufio.NewReader(r)
	ln := 0
	for {
		line, readErr := br.ReadString('\n')
		if len(line) > 0 {
			ln++
			id, err := opts.Field(line)
			if err != nil {
				return fmt.Errorf("%s:%d: %w", name, ln, err)
			}
			if !fn(id) {
				return nil
			}
		}
		if readErr == io.EOF {
			return nil
		}
		if readErr != nil {
			return fmt.Errorf("failed to read %s: %w", name, readErr)
		}
	}
}
