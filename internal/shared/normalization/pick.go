package normalization

// The First* helpers walk an ordered key list and return the first usable
// value. Every entity normalizer declares its synonym tables as such lists,
// so the resolution order is data, not branching.

// FirstString returns the first non-empty textual value among keys.
func FirstString(raw map[string]any, keys ...string) string {
	for _, key := range keys {
		value, found := raw[key]
		if !found {
			continue
		}
		if s := AsString(value); s != "" {
			return s
		}
	}
	return ""
}

// FirstFloat returns the first coercible numeric value among keys.
func FirstFloat(raw map[string]any, keys ...string) (float64, bool) {
	for _, key := range keys {
		value, found := raw[key]
		if !found {
			continue
		}
		if parsed, ok := AsFloat(value); ok {
			return parsed, true
		}
	}
	return 0, false
}

// FirstInt returns the first coercible integer value among keys.
func FirstInt(raw map[string]any, keys ...string) (int, bool) {
	for _, key := range keys {
		value, found := raw[key]
		if !found {
			continue
		}
		if parsed, ok := AsInt(value); ok {
			return parsed, true
		}
	}
	return 0, false
}

// FirstBool returns the first recognizable boolean value among keys.
func FirstBool(raw map[string]any, keys ...string) (bool, bool) {
	for _, key := range keys {
		value, found := raw[key]
		if !found {
			continue
		}
		if parsed, ok := AsBool(value); ok {
			return parsed, true
		}
	}
	return false, false
}

// FirstMap returns the first object value among keys.
func FirstMap(raw map[string]any, keys ...string) map[string]any {
	for _, key := range keys {
		if entry := AsMap(raw[key]); entry != nil {
			return entry
		}
	}
	return nil
}

// FirstSlice returns the first collection value among keys.
func FirstSlice(raw map[string]any, keys ...string) []any {
	for _, key := range keys {
		if items := AsSlice(raw[key]); items != nil {
			return items
		}
	}
	return nil
}
