package domain

import "testing"

func TestNormalizeGarageCoercesFields(t *testing.T) {
	garage, err := NormalizeGarage(map[string]any{
		"garage_id":   float64(42),
		"garageName":  "Central Parking",
		"desc":        "Downtown garage",
		"photo_url":   "https://cdn.example.com/central.jpg",
		"stars":       "4.5",
		"hourly_rate": "3.75",
		"amenities":   []any{"ev_charging", "car_wash", float64(24)},
		"capacity":    "120",
		"free_slots":  float64(37),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if garage.ID != "42" {
		t.Fatalf("expected id 42, got %q", garage.ID)
	}
	if garage.Name != "Central Parking" {
		t.Fatalf("unexpected name %q", garage.Name)
	}
	if garage.Image != "https://cdn.example.com/central.jpg" {
		t.Fatalf("unexpected image %q", garage.Image)
	}
	if garage.Rating != 4.5 {
		t.Fatalf("expected rating 4.5, got %v", garage.Rating)
	}
	if garage.PricePerHour != 3.75 {
		t.Fatalf("expected price 3.75, got %v", garage.PricePerHour)
	}
	if len(garage.Amenities) != 3 || garage.Amenities[2] != "24" {
		t.Fatalf("unexpected amenities %v", garage.Amenities)
	}
	if garage.TotalSlots != 120 || garage.AvailableSlots != 37 {
		t.Fatalf("unexpected counts %d/%d", garage.TotalSlots, garage.AvailableSlots)
	}
}

func TestNormalizeGarageMissingImageStaysEmpty(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
	}{
		{"no image key at all", map[string]any{"id": "G1", "name": "Bare"}},
		{"null literal", map[string]any{"id": "G1", "image": "null"}},
		{"undefined literal", map[string]any{"id": "G1", "photoUrl": "undefined"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			garage, err := NormalizeGarage(tt.raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if garage.Image != "" {
				t.Fatalf("expected empty image, got %q", garage.Image)
			}
		})
	}
}

func TestNormalizeGarageRequiresID(t *testing.T) {
	_, err := NormalizeGarage(map[string]any{"name": "Ghost Garage"})
	if err == nil {
		t.Fatal("expected an error for a garage without id")
	}
}

func TestNormalizeGarageDefaultsPrice(t *testing.T) {
	garage, err := NormalizeGarage(map[string]any{"id": "G1", "price": "free"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if garage.PricePerHour != DefaultPricePerHour {
		t.Fatalf("expected default price, got %v", garage.PricePerHour)
	}
}

func TestNormalizeGarageClampsCounts(t *testing.T) {
	garage, err := NormalizeGarage(map[string]any{
		"id":              "G1",
		"total_slots":     float64(10),
		"available_slots": float64(25),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if garage.AvailableSlots != 10 {
		t.Fatalf("available must not exceed total, got %d", garage.AvailableSlots)
	}

	garage, err = NormalizeGarage(map[string]any{"id": "G2", "capacity": float64(-5)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if garage.TotalSlots != 0 {
		t.Fatalf("negative capacity must clamp to zero, got %d", garage.TotalSlots)
	}
}

func TestNormalizeGarageLocation(t *testing.T) {
	nested, err := NormalizeGarage(map[string]any{
		"id": "G1",
		"coordinates": map[string]any{
			"latitude": "40.7128",
			"lon":      float64(-74.006),
			"street":   "1 Main St",
			"city":     "New York",
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if nested.Location.Lat != 40.7128 || nested.Location.Lng != -74.006 {
		t.Fatalf("unexpected coordinates %+v", nested.Location)
	}
	if nested.Location.Address != "1 Main St" || nested.Location.City != "New York" {
		t.Fatalf("unexpected address parts %+v", nested.Location)
	}

	flat, err := NormalizeGarage(map[string]any{
		"id":      "G2",
		"lat":     float64(51.5),
		"lng":     float64(-0.12),
		"address": "Westminster",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if flat.Location.Lat != 51.5 || flat.Location.Lng != -0.12 {
		t.Fatalf("flat coordinates not picked up: %+v", flat.Location)
	}
	if flat.Location.Address != "Westminster" {
		t.Fatalf("flat address not picked up: %+v", flat.Location)
	}
}

func TestNormalizeGarageEmbeddedFloors(t *testing.T) {
	garage, err := NormalizeGarage(map[string]any{
		"id": "G1",
		"floors": []any{
			map[string]any{"level": float64(0), "total_slots": float64(20)},
			map[string]any{"level": float64(1), "total_slots": float64(18)},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(garage.Floors) != 2 {
		t.Fatalf("expected 2 floors, got %d", len(garage.Floors))
	}
	if garage.Floors[1].TotalSlots != 18 {
		t.Fatalf("unexpected floor totals %+v", garage.Floors[1])
	}
}

func TestBuildGarageDetailUnwrapsEnvelopes(t *testing.T) {
	payloads := []any{
		map[string]any{"id": "G1", "name": "Central"},
		map[string]any{"data": map[string]any{"id": "G1", "name": "Central"}},
		map[string]any{"data": map[string]any{"garage": map[string]any{"id": "G1", "name": "Central"}}},
		map[string]any{"place": map[string]any{"id": "G1", "name": "Central"}},
	}

	for i, payload := range payloads {
		garage, err := BuildGarageDetail(payload)
		if err != nil {
			t.Fatalf("payload %d: unexpected error: %v", i, err)
		}
		if garage.ID != "G1" || garage.Name != "Central" {
			t.Fatalf("payload %d: unexpected garage %+v", i, garage)
		}
	}
}

func TestBuildGarageDetailRejectsNonObject(t *testing.T) {
	if _, err := BuildGarageDetail("oops"); err == nil {
		t.Fatal("expected an error for a scalar payload")
	}
}

func TestBuildGaragesDropsItemsWithoutIdentity(t *testing.T) {
	payload := map[string]any{
		"data": map[string]any{
			"garages": []any{
				map[string]any{"id": "G1", "name": "Central"},
				map[string]any{"name": "Nameless"},
				map[string]any{"place_id": "G2"},
			},
		},
	}

	garages, dropped := BuildGarages(payload)
	if len(garages) != 2 {
		t.Fatalf("expected 2 garages, got %d", len(garages))
	}
	if dropped != 1 {
		t.Fatalf("expected 1 dropped item, got %d", dropped)
	}
	if garages[1].ID != "G2" {
		t.Fatalf("expected place_id synonym to resolve, got %+v", garages[1])
	}
}
