package normalization

// Unwrap peels the success envelopes the backend wraps entity payloads in.
// Resolution order, first match wins: the payload itself, one level under
// "data", two levels under "data.data", then a named entity key at whichever
// level the data unwrapping landed on. Levels are never mixed: once a wrapper
// matches, lookup continues only inside it.
func Unwrap(payload any, entityKeys ...string) map[string]any {
	container := AsMap(payload)
	if container == nil {
		return nil
	}
	if inner := AsMap(container["data"]); inner != nil {
		if nested := AsMap(inner["data"]); nested != nil {
			container = nested
		} else {
			container = inner
		}
	}
	for _, key := range entityKeys {
		if entity := AsMap(container[key]); entity != nil {
			return entity
		}
	}
	return container
}

// UnwrapList locates the item collection of a list response. The backend
// returns either a bare array or an object holding the array under one of a
// few route-specific keys, optionally behind a "data" wrapper.
func UnwrapList(payload any, listKeys ...string) []any {
	if items := AsSlice(payload); items != nil {
		return items
	}
	container := AsMap(payload)
	if container == nil {
		return nil
	}
	for _, key := range listKeys {
		if items := AsSlice(container[key]); items != nil {
			return items
		}
	}
	if items := AsSlice(container["data"]); items != nil {
		return items
	}
	if inner := AsMap(container["data"]); inner != nil {
		for _, key := range listKeys {
			if items := AsSlice(inner[key]); items != nil {
				return items
			}
		}
	}
	return nil
}

// ItemMaps filters a raw item collection down to its object entries.
func ItemMaps(items []any) []map[string]any {
	if len(items) == 0 {
		return nil
	}
	maps := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if entry := AsMap(item); entry != nil {
			maps = append(maps, entry)
		}
	}
	return maps
}
