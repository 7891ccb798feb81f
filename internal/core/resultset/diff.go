package resultset

import (
	"io"
	"iter"
	"os"
)

// Diff yields the identifiers of the file at pathB that do not occur in the
// file at pathA, in pathB's line order and without deduplication.
//
// File A is loaded completely before file B is read; file B is streamed, so
// identifiers found before a malformed line of B are yielded before the
// error. The first error ends the sequence.
func Diff(pathA, pathB string, opts Options) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		base, err := Load(pathA, opts)
		if err != nil {
			yield("", err)
			return
		}

		fh, err := os.Open(pathB)
		if err != nil {
			yield("", err)
			return
		}
		defer func() { _ = fh.Close() }()

		stopped := false
		err = scan(fh, pathB, opts, func(id string) bool {
			if base.Contains(id) {
				return true
			}
			if !yield(id, nil) {
				stopped = true
				return false
			}
			return true
		})
		if err != nil && !stopped {
			yield("", err)
		}
	}
}

// WriteDiff writes each identifier of Diff on its own line as soon as it is
// found. It returns the number of identifiers written.
func WriteDiff(w io.Writer, pathA, pathB string, opts Options) (int, error) {
	n := 0
	for id, err := range Diff(pathA, pathB, opts) {
		if err != nil {
			return n, err
		}
		if _, err := io.WriteString(w, id+"\n"); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// Collect drains a Diff sequence into a slice.
func Collect(seq iter.Seq2[string, error]) ([]string, error) {
	out := []string{}
	for id, err := range seq {
		if err != nil {
			return out, err
		}
		out = append(out, id)
	}
	return out, nil
}
