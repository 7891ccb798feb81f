package linking

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/agenthands/linkbench/internal/core/model"
)

// ErrMalformedExample is returned for a dataset line that is not exactly
// id, utterance and program separated by tabs.
var ErrMalformedExample = errors.New("malformed example: want 3 tab-separated fields")

const maxLine = 1 << 20

// ReadExamples reads a dataset. Blank lines are skipped; every other line is
// trimmed and must split into exactly three fields.
func ReadExamples(r io.Reader, name string) ([]model.Example, error) {
	var out []model.Example
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)
	ln := 0
	for sc.Scan() {
		ln++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		f := strings.Split(line, "\t")
		if len(f) != 3 {
			return nil, fmt.Errorf("%s:%d: %w (got %d)", name, ln, ErrMalformedExample, len(f))
		}
		out = append(out, model.Example{ID: f[0], Utterance: f[1], ThingTalk: f[2]})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return out, nil
}

func LoadExamples(path string) ([]model.Example, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = fh.Close() }()

	return ReadExamples(fh, path)
}

// GoldCase lists the entities an example is expected to link to.
type GoldCase struct {
	ID       string
	Expected []string
}

// ReadGold reads lines of "id<TAB>Q1,Q2". An empty or absent second field
// means no entity is expected.
func ReadGold(r io.Reader, name string) ([]GoldCase, error) {
	var out []GoldCase
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)
	ln := 0
	for sc.Scan() {
		ln++
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		id, rest, _ := strings.Cut(line, "\t")
		if id == "" {
			return nil, fmt.Errorf("%s:%d: missing id", name, ln)
		}
		expected := []string{}
		for _, q := range strings.Split(rest, ",") {
			if q = strings.TrimSpace(q); q != "" {
				expected = append(expected, q)
			}
		}
		out = append(out, GoldCase{ID: id, Expected: expected})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return out, nil
}

func LoadGold(path string) ([]GoldCase, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = fh.Close() }()

	return ReadGold(fh, path)
}
