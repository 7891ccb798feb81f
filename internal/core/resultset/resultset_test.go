package resultset

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeDebug writes one tab-delimited record per id.
func writeDebug(t *testing.T, dir, name string, ids ...string) string {
	t.Helper()
	var b strings.Builder
	for _, id := range ids {
		b.WriteString(id)
		b.WriteString("\tsome utterance\tsome program\n")
	}
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func TestField(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		line    string
		want    string
		wantErr error
	}{
		{name: "first field", line: "q1\tfoo\tbar\n", want: "q1"},
		{name: "crlf", line: "q1\tfoo\r\n", want: "q1"},
		{name: "no terminator", line: "q1\tfoo", want: "q1"},
		{name: "empty id", line: "\tfoo\n", want: ""},
		{name: "keeps spaces", line: " q1 \tfoo\n", want: " q1 "},
		{name: "single field strict", line: "q1\n", wantErr: ErrMissingDelimiter},
		{name: "single field allowed", opts: Options{AllowSingleField: true}, line: "q1\r\n", want: "q1"},
		{name: "custom delimiter", opts: Options{Delimiter: ','}, line: "q1,foo\tbar\n", want: "q1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.opts.Field(tt.line)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseKeepsOrderAndDuplicates(t *testing.T) {
	s, err := Parse(strings.NewReader("b\tx\na\ty\nb\tz\n"), "mem", Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"b", "a", "b"}, s.IDs())
	assert.Equal(t, 3, s.Len())
	assert.True(t, s.Contains("a"))
	assert.False(t, s.Contains("A"))
}

func TestParseReportsLine(t *testing.T) {
	_, err := Parse(strings.NewReader("q1\tok\nbroken\n"), "run.debug", Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingDelimiter)
	assert.Contains(t, err.Error(), "run.debug:2")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.debug"), Options{})
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestMissing(t *testing.T) {
	a := New("q1", "q2")
	b := New("q1", "q3", "q3")
	assert.Equal(t, []string{"q3", "q3"}, a.Missing(b))
	assert.Empty(t, b.Missing(New("q3", "q1")))
}

func TestDiff(t *testing.T) {
	tests := []struct {
		name string
		a    []string
		b    []string
		want []string
	}{
		{name: "duplicates emitted", a: []string{"q1", "q2"}, b: []string{"q1", "q3", "q3"}, want: []string{"q3", "q3"}},
		{name: "empty base", a: nil, b: []string{"q1"}, want: []string{"q1"}},
		{name: "empty candidate", a: []string{"q1"}, b: nil, want: []string{}},
		{name: "identical", a: []string{"q1", "q2"}, b: []string{"q2", "q1"}, want: []string{}},
		{name: "order kept", a: []string{"q5"}, b: []string{"q9", "q5", "q2", "q7"}, want: []string{"q9", "q2", "q7"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			pa := writeDebug(t, dir, "a.debug", tt.a...)
			pb := writeDebug(t, dir, "b.debug", tt.b...)

			got, err := Collect(Diff(pa, pb, Options{}))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDiffStopsEarly(t *testing.T) {
	dir := t.TempDir()
	pa := writeDebug(t, dir, "a.debug")
	pb := writeDebug(t, dir, "b.debug", "q1", "q2", "q3")

	var got []string
	for id, err := range Diff(pa, pb, Options{}) {
		require.NoError(t, err)
		got = append(got, id)
		if len(got) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"q1", "q2"}, got)
}

func TestDiffErrors(t *testing.T) {
	dir := t.TempDir()
	good := writeDebug(t, dir, "good.debug", "q1")
	missing := filepath.Join(dir, "missing.debug")

	_, err := Collect(Diff(missing, good, Options{}))
	assert.ErrorIs(t, err, fs.ErrNotExist)

	_, err = Collect(Diff(good, missing, Options{}))
	assert.ErrorIs(t, err, fs.ErrNotExist)

	bad := filepath.Join(dir, "bad.debug")
	require.NoError(t, os.WriteFile(bad, []byte("q2\tx\nq3\n"), 0o644))
	got, err := Collect(Diff(good, bad, Options{}))
	assert.ErrorIs(t, err, ErrMissingDelimiter)
	assert.Equal(t, []string{"q2"}, got)
}

func TestWriteDiff(t *testing.T) {
	dir := t.TempDir()
	pa := writeDebug(t, dir, "a.debug", "q1", "q2")
	pb := writeDebug(t, dir, "b.debug", "q1", "q3", "q3")

	var out bytes.Buffer
	n, err := WriteDiff(&out, pa, pb, Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "q3\nq3\n", out.String())
}

func TestWriteDiffSingleFieldLines(t *testing.T) {
	dir := t.TempDir()
	pa := filepath.Join(dir, "a.debug")
	pb := filepath.Join(dir, "b.debug")
	require.NoError(t, os.WriteFile(pa, []byte("q1\n"), 0o644))
	require.NoError(t, os.WriteFile(pb, []byte("q1\nq2\r\n"), 0o644))

	var out bytes.Buffer
	_, err := WriteDiff(&out, pa, pb, Options{})
	assert.ErrorIs(t, err, ErrMissingDelimiter)

	out.Reset()
	n, err := WriteDiff(&out, pa, pb, Options{AllowSingleField: true})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "q2\n", out.String())
}
