package domain

import "testing"

func TestBuildFloorsGroupsByLevel(t *testing.T) {
	slots := []Slot{
		{ID: "S1", Number: "1", Level: 0, Status: SlotStatusAvailable},
		{ID: "S2", Number: "2", Level: 0, Status: SlotStatusOccupied},
		{ID: "S3", Number: "3", Level: 1, Status: SlotStatusAvailable},
		{ID: "S4", Number: "4", Level: 2, Status: SlotStatusReserved},
	}

	floors := BuildFloors("G1", slots)
	if len(floors) != 3 {
		t.Fatalf("expected 3 floors, got %d", len(floors))
	}
	for i, level := range []int{0, 1, 2} {
		if floors[i].Level != level {
			t.Fatalf("floor %d: expected level %d, got %d", i, level, floors[i].Level)
		}
	}

	ground := floors[0]
	if ground.ID != "G1-floor-0" {
		t.Fatalf("unexpected floor id %q", ground.ID)
	}
	if ground.TotalSlots != 2 {
		t.Fatalf("expected 2 slots on ground, got %d", ground.TotalSlots)
	}
	if ground.AvailableSlots != 1 {
		t.Fatalf("expected 1 available on ground, got %d", ground.AvailableSlots)
	}
	if floors[2].AvailableSlots != 0 {
		t.Fatalf("reserved slot must not count as available, got %d", floors[2].AvailableSlots)
	}
}

func TestBuildFloorsEmptyYieldsSyntheticFloor(t *testing.T) {
	floors := BuildFloors("G9", nil)
	if len(floors) != 1 {
		t.Fatalf("expected a single synthetic floor, got %d", len(floors))
	}
	floor := floors[0]
	if floor.Level != 0 || floor.TotalSlots != 0 || floor.AvailableSlots != 0 {
		t.Fatalf("synthetic floor must be empty, got %+v", floor)
	}
	if floor.ID != "G9-floor-0" {
		t.Fatalf("unexpected synthetic id %q", floor.ID)
	}
}

func TestBuildFloorsNamesBasements(t *testing.T) {
	floors := BuildFloors("G1", []Slot{{ID: "S1", Number: "1", Level: -1}})
	if floors[0].Name != "Basement 1" {
		t.Fatalf("expected Basement 1, got %q", floors[0].Name)
	}
}

func TestBuildFloorsOrdersSlotsWithinFloor(t *testing.T) {
	floors := BuildFloors("G1", []Slot{
		{ID: "S10", Number: "10", Level: 0},
		{ID: "S2", Number: "2", Level: 0},
	})
	if floors[0].Slots[0].Number != "2" {
		t.Fatalf("expected slot 2 first, got %s", floors[0].Slots[0].Number)
	}
}

func TestNormalizeFloorEmbedded(t *testing.T) {
	floor := NormalizeFloor(map[string]any{
		"level": float64(1),
		"slots": []any{
			map[string]any{"id": "S1", "status": "available"},
			map[string]any{"id": "S2", "is_booked": true},
		},
	})

	if floor.ID != "floor-1" {
		t.Fatalf("expected synthesized id, got %q", floor.ID)
	}
	if floor.Name != "Level 1" {
		t.Fatalf("expected Level 1, got %q", floor.Name)
	}
	if floor.TotalSlots != 2 || floor.AvailableSlots != 1 {
		t.Fatalf("expected totals 2/1, got %d/%d", floor.TotalSlots, floor.AvailableSlots)
	}
}

func TestNormalizeFloorCountsWithoutSlots(t *testing.T) {
	floor := NormalizeFloor(map[string]any{
		"name":            "Roof",
		"level":           float64(3),
		"total_slots":     "40",
		"available_slots": float64(12),
	})

	if floor.Name != "Roof" {
		t.Fatalf("expected Roof, got %q", floor.Name)
	}
	if floor.TotalSlots != 40 || floor.AvailableSlots != 12 {
		t.Fatalf("expected totals 40/12, got %d/%d", floor.TotalSlots, floor.AvailableSlots)
	}
}
