package jsonl

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vk/haspcfg/internal/ctyconv"
)

// EncodeLine serializes obj as a single line with sorted keys, ": " and ", "
// separators and non-ASCII text kept as UTF-8.
func EncodeLine(obj map[string]any) (string, error) {
	var sb strings.Builder
	if err := encodeValue(&sb, obj); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// EncodeLines encodes objs one per line, without a trailing newline.
func EncodeLines(objs []map[string]any) (string, error) {
	lines := make([]string, 0, len(objs))
	for _, obj := range objs {
		line, err := EncodeLine(obj)
		if err != nil {
			return "", err
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), nil
}

func encodeValue(sb *strings.Builder, v any) error {
	switch v := v.(type) {
	case map[string]any:
		sb.WriteByte('{')
		for i, k := range ctyconv.SortedKeys(v) {
			if i > 0 {
				sb.WriteString(", ")
			}
			if err := encodeScalar(sb, k); err != nil {
				return err
			}
			sb.WriteString(": ")
			if err := encodeValue(sb, v[k]); err != nil {
				return err
			}
		}
		sb.WriteByte('}')
	case []any:
		sb.WriteByte('[')
		for i, item := range v {
			if i > 0 {
				sb.WriteString(", ")
			}
			if err := encodeValue(sb, item); err != nil {
				return err
			}
		}
		sb.WriteByte(']')
	default:
		return encodeScalar(sb, v)
	}
	return nil
}

func encodeScalar(sb *strings.Builder, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding %v: %w", v, err)
	}
	sb.Write(bytes.TrimRight(buf.Bytes(), "\n"))
	return nil
}
