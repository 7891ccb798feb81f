package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type spanList struct {
	Spans []struct {
		Text string `json:"text"`
	} `json:"spans"`
}

func TestParseJSON(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     int
		wantErr  bool
	}{
		{name: "plain", response: `{"spans":[{"text":"Isar"}]}`, want: 1},
		{name: "fenced", response: "```json\n{\"spans\":[{\"text\":\"a\"},{\"text\":\"b\"}]}\n```", want: 2},
		{name: "chatter", response: "Sure! Here you go: {\"spans\":[]} Hope this helps.", want: 0},
		{name: "no object", response: "no entities", wantErr: true},
		{name: "unclosed", response: "} {\"spans\":", wantErr: true},
		{name: "invalid", response: `{"spans": [}`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseJSON[spanList](tt.response)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, got.Spans, tt.want)
		})
	}
}
