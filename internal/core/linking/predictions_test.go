package linking

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredictionsKeepInsertionOrder(t *testing.T) {
	p := NewPredictions()
	p.Set("10", []string{"Q9696"})
	p.Set("2", nil)
	p.Set("1", []string{"Q1", "Q2"})
	p.Set("10", []string{"Q5"})

	assert.Equal(t, []string{"10", "2", "1"}, p.Keys())
	assert.Equal(t, 3, p.Len())

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Equal(t, `{"10":["Q5"],"2":[],"1":["Q1","Q2"]}`, string(data))
}

func TestPredictionsRoundTripOrder(t *testing.T) {
	in := `{"z": ["Q3"], "a": [], "m": ["Q1", "Q2"]}`
	p, err := ReadPredictions(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []string{"z", "a", "m"}, p.Keys())

	var buf bytes.Buffer
	require.NoError(t, p.Write(&buf))
	assert.Equal(t, `{"z":["Q3"],"a":[],"m":["Q1","Q2"]}`+"\n", buf.String())
}

func TestPredictionsRejectsNonObject(t *testing.T) {
	_, err := ReadPredictions(strings.NewReader(`["Q1"]`))
	assert.Error(t, err)

	_, err = ReadPredictions(strings.NewReader(`{"1": "Q1"}`))
	assert.Error(t, err)
}

func TestEmptyPredictions(t *testing.T) {
	data, err := json.Marshal(NewPredictions())
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(data))
}
