package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseModelJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    map[string]interface{}
		wantErr bool
	}{
		{
			name:  "pure JSON",
			input: `{"area": "Lekki", "bedrooms": 2}`,
			want: map[string]interface{}{
				"area":     "Lekki",
				"bedrooms": float64(2),
			},
		},
		{
			name: "JSON in markdown code block",
			input: "```json\n" +
				`{"area": "Yaba", "max_rent": 500000}` + "\n```",
			want: map[string]interface{}{
				"area":     "Yaba",
				"max_rent": float64(500000),
			},
		},
		{
			name: "JSON in plain code block",
			input: "```\n" +
				`{"area": "Ikeja"}` + "\n```",
			want: map[string]interface{}{
				"area": "Ikeja",
			},
		},
		{
			name:  "JSON with surrounding text",
			input: `Here are the parameters: {"area": "Surulere", "bedrooms": 3} as requested.`,
			want: map[string]interface{}{
				"area":     "Surulere",
				"bedrooms": float64(3),
			},
		},
		{
			name:  "nested object embedded in prose",
			input: `Result: {"filters": {"area": "Ajah"}, "limit": 10} done`,
			want: map[string]interface{}{
				"filters": map[string]interface{}{"area": "Ajah"},
				"limit":   float64(10),
			},
		},
		{
			name:  "braces inside string literals",
			input: `{"note": "use {curly} braces", "n": 1}`,
			want: map[string]interface{}{
				"note": "use {curly} braces",
				"n":    float64(1),
			},
		},
		{
			name:    "empty input",
			input:   "",
			wantErr: true,
		},
		{
			name:    "no JSON at all",
			input:   "I could not find any matching properties.",
			wantErr: true,
		},
		{
			name:    "unbalanced braces",
			input:   `{"area": "Lekki"`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got map[string]interface{}
			err := ParseModelJSON(tt.input, &got)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseModelJSONArray(t *testing.T) {
	var got []string
	err := ParseModelJSON(`The areas are ["Lekki", "Yaba"] in order.`, &got)
	require.NoError(t, err)
	assert.Equal(t, []string{"Lekki", "Yaba"}, got)
}

func TestParseModelJSONIntoStruct(t *testing.T) {
	type params struct {
		Area     string `json:"area"`
		Bedrooms int    `json:"bedrooms"`
	}

	var got params
	err := ParseModelJSON("```json\n{\"area\": \"Ikoyi\", \"bedrooms\": 4}\n```", &got)
	require.NoError(t, err)
	assert.Equal(t, params{Area: "Ikoyi", Bedrooms: 4}, got)
}
