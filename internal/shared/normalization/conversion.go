package normalization

import (
	"math"
	"strconv"
	"strings"
)

// placeholderLiterals are textual stand-ins for "no value" that some backend
// routes serialize instead of omitting the field.
var placeholderLiterals = map[string]struct{}{
	"null":      {},
	"undefined": {},
}

// IsPlaceholder reports whether the trimmed value is one of the literal
// no-value markers ("null", "undefined", any casing) or empty.
func IsPlaceholder(value string) bool {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return true
	}
	_, found := placeholderLiterals[strings.ToLower(trimmed)]
	return found
}

// AsString trims and returns the textual form of value. Numeric identifiers
// are rendered as decimal text; placeholder literals collapse to "".
func AsString(value any) string {
	switch typed := value.(type) {
	case string:
		trimmed := strings.TrimSpace(typed)
		if IsPlaceholder(trimmed) {
			return ""
		}
		return trimmed
	case float64:
		if typed == math.Trunc(typed) && !math.IsInf(typed, 0) {
			return strconv.FormatInt(int64(typed), 10)
		}
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case float32:
		return AsString(float64(typed))
	case int:
		return strconv.Itoa(typed)
	case int32:
		return strconv.FormatInt(int64(typed), 10)
	case int64:
		return strconv.FormatInt(typed, 10)
	case bool:
		return strconv.FormatBool(typed)
	default:
		return ""
	}
}

// AsFloat coerces numeric values, including numeric strings, into a float64.
// The second return is false when the value is absent, non-numeric, NaN or Inf.
func AsFloat(value any) (float64, bool) {
	switch typed := value.(type) {
	case float64:
		if math.IsNaN(typed) || math.IsInf(typed, 0) {
			return 0, false
		}
		return typed, true
	case float32:
		return AsFloat(float64(typed))
	case int:
		return float64(typed), true
	case int32:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case string:
		trimmed := strings.TrimSpace(typed)
		if trimmed == "" || IsPlaceholder(trimmed) {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

// AsInt coerces numeric values and numeric strings into an int.
func AsInt(value any) (int, bool) {
	parsed, ok := AsFloat(value)
	if !ok {
		return 0, false
	}
	return int(parsed), true
}

// AsBool recognizes booleans and their common textual and numeric spellings.
func AsBool(value any) (bool, bool) {
	switch typed := value.(type) {
	case bool:
		return typed, true
	case string:
		switch strings.ToLower(strings.TrimSpace(typed)) {
		case "true", "yes", "1":
			return true, true
		case "false", "no", "0":
			return false, true
		}
		return false, false
	case float64:
		if typed == 0 || typed == 1 {
			return typed == 1, true
		}
		return false, false
	case int:
		if typed == 0 || typed == 1 {
			return typed == 1, true
		}
		return false, false
	default:
		return false, false
	}
}

// AsSlice normalizes the supported collection encodings into a []any.
func AsSlice(value any) []any {
	switch typed := value.(type) {
	case []any:
		return typed
	case []map[string]any:
		items := make([]any, 0, len(typed))
		for _, entry := range typed {
			items = append(items, entry)
		}
		return items
	default:
		return nil
	}
}

// AsMap returns value as a map when it is one, nil otherwise.
func AsMap(value any) map[string]any {
	if typed, ok := value.(map[string]any); ok {
		return typed
	}
	return nil
}

// AsStringSlice extracts the non-empty textual entries of a collection.
func AsStringSlice(value any) []string {
	raw := AsSlice(value)
	if len(raw) == 0 {
		return nil
	}
	items := make([]string, 0, len(raw))
	for _, entry := range raw {
		if s := AsString(entry); s != "" {
			items = append(items, s)
		}
	}
	if len(items) == 0 {
		return nil
	}
	return items
}
