package normalization

import "testing"

func TestUnwrapResolutionOrder(t *testing.T) {
	entity := map[string]any{"id": "G1", "name": "Central"}

	cases := []struct {
		name    string
		payload any
	}{
		{"direct", map[string]any{"id": "G1", "name": "Central"}},
		{"under data", map[string]any{"data": entity}},
		{"double data", map[string]any{"data": map[string]any{"data": entity}}},
		{"named under data", map[string]any{"data": map[string]any{"garage": entity}}},
		{"named at top", map[string]any{"garage": entity}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Unwrap(tc.payload, "garage", "place")
			if got == nil {
				t.Fatal("expected a container")
			}
			if AsString(got["id"]) != "G1" {
				t.Fatalf("expected id G1, got %v", got["id"])
			}
		})
	}
}

func TestUnwrapNonObjectPayloads(t *testing.T) {
	if got := Unwrap(nil); got != nil {
		t.Fatalf("expected nil for nil payload, got %v", got)
	}
	if got := Unwrap([]any{"x"}); got != nil {
		t.Fatalf("expected nil for list payload, got %v", got)
	}
	if got := Unwrap("plain"); got != nil {
		t.Fatalf("expected nil for scalar payload, got %v", got)
	}
}

func TestUnwrapListVariants(t *testing.T) {
	items := []any{
		map[string]any{"id": "S1"},
		map[string]any{"id": "S2"},
	}

	cases := []struct {
		name    string
		payload any
	}{
		{"bare array", items},
		{"keyed slots", map[string]any{"slots": items}},
		{"keyed parkingSlots", map[string]any{"parkingSlots": items}},
		{"under data", map[string]any{"data": items}},
		{"keyed under data", map[string]any{"data": map[string]any{"parking": items}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := UnwrapList(tc.payload, "slots", "parking", "parkingSlots")
			if len(got) != 2 {
				t.Fatalf("expected 2 items, got %d", len(got))
			}
		})
	}
}

func TestUnwrapListMisses(t *testing.T) {
	if got := UnwrapList(map[string]any{"other": []any{1}}, "slots"); got != nil {
		t.Fatalf("expected nil for unknown key, got %v", got)
	}
	if got := UnwrapList("plain", "slots"); got != nil {
		t.Fatalf("expected nil for scalar payload, got %v", got)
	}
}

func TestItemMapsFiltersScalars(t *testing.T) {
	got := ItemMaps([]any{map[string]any{"id": "1"}, "junk", nil, map[string]any{"id": "2"}})
	if len(got) != 2 {
		t.Fatalf("expected 2 maps, got %d", len(got))
	}
}

func TestFirstHelpersHonorKeyOrder(t *testing.T) {
	raw := map[string]any{
		"photo":        "fallback.png",
		"image":        "primary.png",
		"price":        "not-a-number",
		"pricePerHour": "6.5",
		"is_booked":    "yes",
	}

	if got := FirstString(raw, "image", "photo", "picture"); got != "primary.png" {
		t.Fatalf("expected primary.png, got %q", got)
	}
	if got := FirstString(raw, "picture", "photo"); got != "fallback.png" {
		t.Fatalf("expected fallback.png, got %q", got)
	}
	if got := FirstString(raw, "banner"); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}

	price, ok := FirstFloat(raw, "price", "pricePerHour")
	if !ok || price != 6.5 {
		t.Fatalf("expected 6.5, got %v (ok=%v)", price, ok)
	}
	if _, ok := FirstFloat(raw, "price", "rate"); ok {
		t.Fatal("expected no usable numeric value")
	}

	booked, ok := FirstBool(raw, "isBooked", "is_booked")
	if !ok || !booked {
		t.Fatalf("expected booked=true, got %v (ok=%v)", booked, ok)
	}
}
