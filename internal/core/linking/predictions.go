package linking

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Predictions maps example ids to predicted entity ids. Keys keep the order
// in which they were first set, and JSON encoding preserves it.
type Predictions struct {
	keys []string
	ids  map[string][]string

	// Failed lists examples that were skipped after exhausting retries.
	Failed []string
}

func NewPredictions() *Predictions {
	return &Predictions{ids: make(map[string][]string)}
}

// Set replaces the ids of example id. A new id is appended to the key order;
// an existing one keeps its position.
func (p *Predictions) Set(id string, ids []string) {
	if ids == nil {
		ids = []string{}
	}
	if _, ok := p.ids[id]; !ok {
		p.keys = append(p.keys, id)
	}
	p.ids[id] = ids
}

func (p *Predictions) Get(id string) ([]string, bool) {
	ids, ok := p.ids[id]
	return ids, ok
}

func (p *Predictions) Keys() []string {
	return p.keys
}

func (p *Predictions) Len() int {
	return len(p.keys)
}

func (p *Predictions) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range p.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(p.ids[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (p *Predictions) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("predictions: want JSON object, got %v", tok)
	}

	fresh := NewPredictions()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("predictions: want string key, got %v", tok)
		}
		var ids []string
		if err := dec.Decode(&ids); err != nil {
			return fmt.Errorf("predictions: entry %q: %w", key, err)
		}
		fresh.Set(key, ids)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	p.keys, p.ids = fresh.keys, fresh.ids
	return nil
}

// Write encodes p as a single JSON line.
func (p *Predictions) Write(w io.Writer) error {
	data, err := p.MarshalJSON()
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

func ReadPredictions(r io.Reader) (*Predictions, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	p := NewPredictions()
	if err := json.Unmarshal(data, p); err != nil {
		return nil, err
	}
	return p, nil
}

func LoadPredictions(path string) (*Predictions, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = fh.Close() }()

	p, err := ReadPredictions(fh)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return p, nil
}
