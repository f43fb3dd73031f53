package parser

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONSpan(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
		ok   bool
	}{
		{
			name: "bare object",
			text: `{"a": 1}`,
			want: `{"a": 1}`,
			ok:   true,
		},
		{
			name: "object inside prose",
			text: `Sure thing: {"a": [1, 2]} hope that helps`,
			want: `{"a": [1, 2]}`,
			ok:   true,
		},
		{
			name: "brackets inside strings are ignored",
			text: `{"a": "closing } brace", "b": 1} trailing`,
			want: `{"a": "closing } brace", "b": 1}`,
			ok:   true,
		},
		{
			name: "escaped quote does not end the string",
			text: `{"a": "quote \" and } brace"}`,
			want: `{"a": "quote \" and } brace"}`,
			ok:   true,
		},
		{
			name: "unbalanced to the end",
			text: `{"a": [1, 2`,
			want: "",
			ok:   false,
		},
		{
			name: "no brackets at all",
			text: "no json here",
			want: "",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := extractJSONSpan(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRepair(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "single quotes",
			text: `{'a': 'b'}`,
			want: `{"a":"b"}`,
		},
		{
			name: "trailing commas",
			text: `{"a": [1, 2,], "b": 3,}`,
			want: `{"a":[1,2],"b":3}`,
		},
		{
			name: "truncated object",
			text: `{"a": [{"b": "unfinished`,
			want: `{"a":[{"b":"unfinished"}]}`,
		},
		{
			name: "truncated after key",
			text: `{"a": "b", "c":`,
			want: `{"a":"b","c":null}`,
		},
		{
			name: "double quote inside single quoted string",
			text: `{'a': 'say "hi"'}`,
			want: `{"a":"say \"hi\""}`,
		},
		{
			name: "prose after the payload",
			text: `{"a": 1} and some trailing words`,
			want: `{"a":1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repaired, ok := repair(tt.text)
			require.True(t, ok)
			require.True(t, json.Valid([]byte(repaired)), "repaired text %q is not valid JSON", repaired)

			var want, got interface{}
			require.NoError(t, json.Unmarshal([]byte(tt.want), &want))
			require.NoError(t, json.Unmarshal([]byte(repaired), &got))
			assert.Equal(t, want, got)
		})
	}
}

func TestRepairWithoutBrackets(t *testing.T) {
	_, ok := repair("nothing to see")
	assert.False(t, ok)
}
