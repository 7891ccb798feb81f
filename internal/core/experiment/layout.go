// Package experiment locates the per-run output files of an experiment tree:
// <root>/<experiment dir>/<base name><ext>.
package experiment

import (
	"io"
	"path/filepath"

	"github.com/agenthands/linkbench/internal/core/resultset"
)

const (
	DefaultRoot = "./experiments"
	DefaultExt  = ".debug"
)

type Layout struct {
	Root string
	Ext  string
}

func NewLayout(root, ext string) Layout {
	if root == "" {
		root = DefaultRoot
	}
	if ext == "" {
		ext = DefaultExt
	}
	return Layout{Root: root, Ext: ext}
}

// Path returns the debug file written by experiment dir for dataset base.
func (l Layout) Path(dir, base string) string {
	return filepath.Join(l.Root, dir, base+l.Ext)
}

// Compare streams to w the identifiers failing in dirB but not in dirA.
func (l Layout) Compare(w io.Writer, base, dirA, dirB string, opts resultset.Options) (int, error) {
	return resultset.WriteDiff(w, l.Path(dirA, base), l.Path(dirB, base), opts)
}

// Missing is Compare collected into a slice.
func (l Layout) Missing(base, dirA, dirB string, opts resultset.Options) ([]string, error) {
	return resultset.Collect(resultset.Diff(l.Path(dirA, base), l.Path(dirB, base), opts))
}
