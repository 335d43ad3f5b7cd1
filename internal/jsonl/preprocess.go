package jsonl

import (
	"encoding/json"
	"fmt"
	"iter"
	"strings"

	"github.com/tidwall/jsonc"
	"github.com/vk/haspcfg/internal/ctyconv"
)

// StripComments removes comment lines and trailing "//" comments. A marker
// inside a string literal (e.g. a URL) is content, not a comment.
func StripComments(text string) string {
	lines := strings.Split(text, "\n")
	out := lines[:0]
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "//") {
			continue
		}
		if idx := commentIndex(line); idx >= 0 {
			line = strings.TrimRight(line[:idx], " \t")
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// commentIndex returns the offset of the first "//" outside a string
// literal, or -1.
func commentIndex(line string) int {
	inString := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case inString && c == '\\':
			i++
		case c == '"':
			inString = !inString
		case !inString && c == '/' && i+1 < len(line) && line[i+1] == '/':
			return i
		}
	}
	return -1
}

// SplitObjects yields the object fragments of text. A fragment starts at a
// line whose first non-blank character is "{" while no other object is open,
// and ends at the brace that closes it. Text outside fragments and segments
// without a closing brace are discarded.
func SplitObjects(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		lines := strings.Split(StripComments(text), "\n")

		var current []string
		emit := func() bool {
			if current == nil {
				return true
			}
			segment := strings.Join(current, "\n")
			current = nil
			end := strings.LastIndex(segment, "}")
			if end < 0 {
				return true
			}
			return yield(strings.TrimSpace(segment[:end+1]))
		}

		depth := 0
		for _, line := range lines {
			if current == nil {
				if !strings.HasPrefix(strings.TrimSpace(line), "{") {
					continue
				}
				current = []string{}
				depth = 0
			}
			var end int
			depth, end = scanBraces(line, depth)
			if end < 0 {
				current = append(current, line)
				continue
			}
			current = append(current, line[:end+1])
			if !emit() {
				return
			}
		}
		emit()
	}
}

// Split collects SplitObjects into a slice.
func Split(text string) []string {
	var out []string
	for fragment := range SplitObjects(text) {
		out = append(out, fragment)
	}
	return out
}

// scanBraces applies the braces of line outside string literals to depth.
// It stops at the brace that brings depth back to zero and returns its
// index, or -1 when the line leaves the object open.
func scanBraces(line string, depth int) (int, int) {
	inString := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case inString && c == '\\':
			i++
		case c == '"':
			inString = !inString
		case !inString && c == '{':
			depth++
		case !inString && c == '}':
			depth--
			if depth == 0 {
				return 0, i
			}
		}
	}
	return depth, -1
}

// Normalize removes trailing commas and any remaining comments so that a
// rendered fragment is plain JSON.
func Normalize(fragment string) string {
	return strings.TrimSpace(string(jsonc.ToJSON([]byte(fragment))))
}

// ParseLoose parses a fragment that has not been rendered yet. Template
// regions outside string literals are turned into strings first, so the
// object can be inspected before its templates are resolved.
func ParseLoose(fragment string) (map[string]any, error) {
	quoted, err := quoteBareTemplates(fragment)
	if err != nil {
		return nil, err
	}
	obj, err := ctyconv.DecodeJSONObject([]byte(Normalize(quoted)))
	if err != nil {
		return nil, fmt.Errorf("invalid object %q: %w", fragment, err)
	}
	return obj, nil
}

// Parse parses a rendered fragment.
func Parse(fragment string) (map[string]any, error) {
	obj, err := ctyconv.DecodeJSONObject([]byte(Normalize(fragment)))
	if err != nil {
		return nil, fmt.Errorf("invalid object %q: %w", fragment, err)
	}
	return obj, nil
}

func quoteBareTemplates(s string) (string, error) {
	var sb strings.Builder
	inString := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case inString && c == '\\' && i+1 < len(s):
			sb.WriteByte(c)
			sb.WriteByte(s[i+1])
			i++
			continue
		case c == '"':
			inString = !inString
		case !inString && strings.HasPrefix(s[i:], "{{"):
			end := matchingClose(s, i)
			if end < 0 {
				return "", fmt.Errorf("unclosed template at offset %d in %q", i, s)
			}
			quoted, _ := json.Marshal(s[i:end])
			sb.Write(quoted)
			i = end - 1
			continue
		}
		sb.WriteByte(c)
	}
	return sb.String(), nil
}

// matchingClose returns the offset just past the "}}" closing the region
// opened at start, honouring nested regions, or -1.
func matchingClose(s string, start int) int {
	depth := 0
	for i := start; i < len(s)-1; {
		switch {
		case s[i] == '{' && s[i+1] == '{':
			depth++
			i += 2
		case s[i] == '}' && s[i+1] == '}':
			depth--
			i += 2
			if depth == 0 {
				return i
			}
		default:
			i++
		}
	}
	return -1
}
