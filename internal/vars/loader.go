package vars

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/haspcfg/internal/ctyconv"
	"gopkg.in/yaml.v3"
)

// DeclarationPatterns are the file name patterns loaded as variable
// declarations.
var DeclarationPatterns = []string{"*.yaml", "*.yml", "*.hcl"}

// LoadFile parses a single declaration file into a plain nested map. The
// format is chosen by extension.
func LoadFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read declaration file %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return decodeYAML(path, data)
	case ".hcl":
		return decodeHCL(path, data)
	default:
		return nil, fmt.Errorf("unsupported declaration file type: %s", path)
	}
}

func decodeYAML(path string, data []byte) (map[string]any, error) {
	out := make(map[string]any)
	if len(bytes.TrimSpace(data)) == 0 {
		return out, nil
	}
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to parse YAML file %s: %w", path, err)
	}
	// yaml.v3 yields map[any]any for mappings with non-string keys.
	return CopyMap(out), nil
}

// decodeHCL reads top-level attributes of an HCL file. Attribute expressions
// are evaluated without any context, so only literal values are allowed.
func decodeHCL(path string, data []byte) (map[string]any, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}

	attrs, diags := file.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}

	out := make(map[string]any, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("invalid value for %q in %s: %w", name, path, diags)
		}
		native, err := ctyconv.ToNative(val)
		if err != nil {
			return nil, fmt.Errorf("in %s, attribute %q: %w", path, name, err)
		}
		out[name] = native
	}
	return out, nil
}

// checkReserved walks a declaration and rejects reserved key names at any
// depth.
func checkReserved(path string, m map[string]any, prefix []string) error {
	for key, val := range m {
		keyPath := append(append([]string(nil), prefix...), key)
		for _, reserved := range ReservedKeys {
			if key == reserved {
				return &ConfigurationError{
					Path:   path,
					Key:    strings.Join(keyPath, "."),
					Reason: fmt.Sprintf("%q is a reserved name and cannot be used as a variable", reserved),
				}
			}
		}
		if sub, ok := val.(map[string]any); ok {
			if err := checkReserved(path, sub, keyPath); err != nil {
				return err
			}
		}
	}
	return nil
}
