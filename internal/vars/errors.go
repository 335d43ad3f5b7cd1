package vars

import "fmt"

// ReservedKeys may not appear anywhere in a declaration because they collide
// with names the template evaluator treats specially.
var ReservedKeys = []string{"items"}

// ConfigurationError reports an invalid variable declaration or an
// incompatible merge.
type ConfigurationError struct {
	Path   string // declaration file or scope the problem was found in
	Key    string // dotted key path of the offending entry
	Reason string
}

func (e *ConfigurationError) Error() string {
	switch {
	case e.Path != "" && e.Key != "":
		return fmt.Sprintf("configuration error in %s at key %q: %s", e.Path, e.Key, e.Reason)
	case e.Key != "":
		return fmt.Sprintf("configuration error at key %q: %s", e.Key, e.Reason)
	case e.Path != "":
		return fmt.Sprintf("configuration error in %s: %s", e.Path, e.Reason)
	default:
		return "configuration error: " + e.Reason
	}
}
