package jsonl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/haspcfg/internal/jsonl"
)

func TestStripComments(t *testing.T) {
	in := "// header\n" +
		"{\"page\": 1, \"id\": 0}, // trailing\n" +
		"  // indented comment line\n" +
		"{\"page\": 1, \"text\": \"http://example.com/a\"} // note"
	want := "{\"page\": 1, \"id\": 0},\n" +
		"{\"page\": 1, \"text\": \"http://example.com/a\"}"
	assert.Equal(t, want, jsonl.StripComments(in))
}

func TestStripComments_EscapedQuoteInString(t *testing.T) {
	in := `{"text": "say \"//hi\""} // gone`
	assert.Equal(t, `{"text": "say \"//hi\""}`, jsonl.StripComments(in))
}

func TestSplitObjects(t *testing.T) {
	testCases := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "one object per line",
			in:   "{\"page\": 1, \"id\": 0}\n{\"page\": 1, \"id\": 1}\n",
			want: []string{`{"page": 1, "id": 0}`, `{"page": 1, "id": 1}`},
		},
		{
			name: "multi-line object with comments",
			in: "{\n" +
				"  \"page\": 1, // first page\n" +
				"  \"id\": 2,\n" +
				"}\n",
			want: []string{"{\n  \"page\": 1,\n  \"id\": 2,\n}"},
		},
		{
			name: "preamble and trailing text dropped",
			in:   "garbage }\n{\"id\": 1} trailing\n",
			want: []string{`{"id": 1}`},
		},
		{
			name: "segment without closing brace dropped",
			in:   "{\"id\": 1}\n{\"id\": 2,\n",
			want: []string{`{"id": 1}`},
		},
		{
			name: "nested object on its own line stays in parent",
			in:   "{\"id\": 1, \"list\": [\n  {\"a\": 1}\n]}\n{\"id\": 2}",
			want: []string{"{\"id\": 1, \"list\": [\n  {\"a\": 1}\n]}", `{"id": 2}`},
		},
		{
			name: "templates do not confuse boundaries",
			in:   "{\"id\": {{ id }}, \"text\": \"{{ a }}\"}\n{\"id\": 3}",
			want: []string{`{"id": {{ id }}, "text": "{{ a }}"}`, `{"id": 3}`},
		},
		{
			name: "brace in preamble is not an object",
			in:   "header {\n{\"id\": 1}\n{\"id\": 2}\n",
			want: []string{`{"id": 1}`, `{"id": 2}`},
		},
		{
			name: "text after closing brace is ignored",
			in:   "{\"id\": 1} trailing {\n{\"id\": 2}\n",
			want: []string{`{"id": 1}`, `{"id": 2}`},
		},
		{
			name: "stray closing brace after object",
			in:   "{\"id\": 1} }\n{\"id\": 2}\n",
			want: []string{`{"id": 1}`, `{"id": 2}`},
		},
		{
			name: "empty input",
			in:   "",
			want: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, jsonl.Split(tc.in))
		})
	}
}

func TestSplitObjects_StopsWhenConsumerStops(t *testing.T) {
	var seen []string
	for fragment := range jsonl.SplitObjects("{\"id\": 1}\n{\"id\": 2}\n{\"id\": 3}") {
		seen = append(seen, fragment)
		if len(seen) == 2 {
			break
		}
	}
	assert.Len(t, seen, 2)
}

func TestParseLoose(t *testing.T) {
	obj, err := jsonl.ParseLoose(`{"page": {{ page }}, "id": 1, "text": "{{ t }}", "x": {{ "{{ w }}" }},}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"page": "{{ page }}",
		"id":   1,
		"text": "{{ t }}",
		"x":    `{{ "{{ w }}" }}`,
	}, obj)
}

func TestParseLoose_Errors(t *testing.T) {
	_, err := jsonl.ParseLoose(`{"page": {{ page }`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unclosed template")

	_, err = jsonl.ParseLoose(`{"page": }`)
	require.Error(t, err)
}

func TestParse(t *testing.T) {
	obj, err := jsonl.Parse("{\n  \"page\": 1,\n  \"id\": 2.5,\n  \"list\": [1, 2,],\n}")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"page": 1, "id": 2.5, "list": []any{1, 2}}, obj)

	_, err = jsonl.Parse(`{"page": {{ p }}}`)
	require.Error(t, err)
}
