package agent

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexander-akhmetov/codeagent/internal/history"
)

// requireString returns a non-empty parameter or a *MissingParamError.
func requireString(rec *history.Record, name string) (string, error) {
	v, ok := optionalString(rec, name)
	if !ok || strings.TrimSpace(v) == "" {
		return "", &MissingParamError{Tool: rec.Tool, Param: name}
	}
	return v, nil
}

// optionalString renders scalars as text; lists are joined with ", " so a
// YAML list of globs reads like the comma-separated form.
func optionalString(rec *history.Record, name string) (string, bool) {
	raw, ok := rec.Params[name]
	if !ok || raw == nil {
		return "", false
	}
	switch v := raw.(type) {
	case string:
		return v, true
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, fmt.Sprint(item))
		}
		return strings.Join(parts, ", "), true
	default:
		return fmt.Sprint(v), true
	}
}

func optionalBool(rec *history.Record, name string) bool {
	switch v := rec.Params[name].(type) {
	case bool:
		return v
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		return err == nil && b
	default:
		return false
	}
}

// optionalInt accepts YAML integers and numeric strings. ok is false when the
// parameter is absent; a present but non-numeric value is an error.
func optionalInt(rec *history.Record, name string) (int, bool, error) {
	switch v := rec.Params[name].(type) {
	case nil:
		return 0, false, nil
	case int:
		return v, true, nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, true, fmt.Errorf("%s: %q is not a line number", name, v)
		}
		return n, true, nil
	default:
		return 0, true, fmt.Errorf("%s: %v is not a line number", name, v)
	}
}
