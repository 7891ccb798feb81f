package experiment

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/agenthands/linkbench/internal/core/resultset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLayoutDefaults(t *testing.T) {
	l := NewLayout("", "")
	assert.Equal(t, DefaultRoot, l.Root)
	assert.Equal(t, DefaultExt, l.Ext)
	assert.Equal(t, filepath.Join("experiments", "baseline", "qald7.debug"), l.Path("baseline", "qald7"))
}

func TestCompare(t *testing.T) {
	root := t.TempDir()
	l := NewLayout(root, "")

	for dir, body := range map[string]string{
		"run-a": "1\tfoo\n2\tbar\n",
		"run-b": "1\tfoo\n3\tbaz\n4\tqux\n",
	} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, dir), 0o755))
		require.NoError(t, os.WriteFile(l.Path(dir, "test"), []byte(body), 0o644))
	}

	var out bytes.Buffer
	n, err := l.Compare(&out, "test", "run-a", "run-b", resultset.Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "3\n4\n", out.String())

	ids, err := l.Missing("test", "run-b", "run-a", resultset.Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"2"}, ids)

	_, err = l.Missing("dev", "run-a", "run-b", resultset.Options{})
	assert.ErrorIs(t, err, fs.ErrNotExist)
}
