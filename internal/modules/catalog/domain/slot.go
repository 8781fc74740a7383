package domain

import (
	"sort"
	"strconv"

	"github.com/abdelrahmanseada/Car-Parking/internal/shared/normalization"
)

// DefaultPricePerHour is substituted when a price cannot be coerced into a
// usable number. One currency unit, never zero, so a derived total price
// stays positive.
const DefaultPricePerHour = 1.0

// Slot field synonym tables, first match wins. Routes disagree about the
// root noun (slot, spot, parking_spot) and the casing, so every spelling
// observed in the wild is listed here rather than branched on in code.
var (
	slotIDKeys = []string{
		"id", "_id",
		"slotId", "slot_id",
		"spotId", "spot_id",
		"parkingSpotId", "parking_spot_id",
		"parkingSlotId", "parking_slot_id",
	}
	slotNumberKeys = []string{
		"number", "slotNumber", "slot_number", "spotNumber", "spot_number",
		"label", "code", "name",
	}
	slotLevelKeys = []string{
		"level", "floor", "floorLevel", "floor_level", "floorNumber", "floor_number",
	}
	slotSizeKeys = []string{
		"vehicleSize", "vehicle_size", "size", "vehicleType", "vehicle_type",
	}
	slotPriceKeys = []string{
		"pricePerHour", "price_per_hour", "hourlyRate", "hourly_rate", "price", "rate",
	}
	slotListKeys   = []string{"slots", "parking", "parkingSlots", "parking_slots", "spots", "items"}
	slotEntityKeys = []string{"slot", "spot", "parkingSpot", "parking_spot", "parkingSlot", "parking_slot"}
)

// Slot is a reservable unit inside a garage. Status is the perishable part:
// it reflects the fetch that produced it and must be re-read before any
// irreversible decision.
type Slot struct {
	ID           string
	Number       string
	Status       SlotStatus
	Level        int
	VehicleSize  VehicleSize
	PricePerHour float64
}

// NormalizeSlot maps a raw payload onto a Slot. Identity is the only hard
// requirement; everything else falls back to documented defaults.
func NormalizeSlot(raw map[string]any) (Slot, error) {
	id := normalization.FirstString(raw, slotIDKeys...)
	if id == "" {
		return Slot{}, normalization.NewError("slot", "missing id")
	}

	slot := Slot{
		ID:          id,
		Number:      normalization.FirstString(raw, slotNumberKeys...),
		Status:      ResolveSlotStatus(raw),
		VehicleSize: ParseVehicleSize(normalization.FirstString(raw, slotSizeKeys...)),
	}
	if slot.Number == "" {
		slot.Number = id
	}
	if level, ok := normalization.FirstInt(raw, slotLevelKeys...); ok {
		slot.Level = level
	}
	slot.PricePerHour = DefaultPricePerHour
	if price, ok := normalization.FirstFloat(raw, slotPriceKeys...); ok && price >= 0 {
		slot.PricePerHour = price
	}
	return slot, nil
}

// BuildSlots projects a slots listing payload, whatever its wrapping, into
// normalized slots. Items that cannot be normalized are dropped; the second
// return reports how many, so callers can log the loss.
func BuildSlots(payload any) ([]Slot, int) {
	items := normalization.UnwrapList(payload, slotListKeys...)
	if items == nil {
		return nil, 0
	}
	slots := make([]Slot, 0, len(items))
	dropped := 0
	for _, item := range normalization.ItemMaps(items) {
		slot, err := NormalizeSlot(item)
		if err != nil {
			dropped++
			continue
		}
		slots = append(slots, slot)
	}
	return slots, dropped
}

// BuildSlotDetail unwraps a single-slot response and normalizes it.
func BuildSlotDetail(payload any) (Slot, error) {
	container := normalization.Unwrap(payload, slotEntityKeys...)
	if container == nil {
		return Slot{}, normalization.NewError("slot", "payload is not an object")
	}
	return NormalizeSlot(container)
}

// SortSlots orders slots by label, comparing numerically when both labels
// are numbers so "2" sorts before "10".
func SortSlots(slots []Slot) {
	sort.SliceStable(slots, func(i, j int) bool {
		return lessLabel(slots[i].Number, slots[j].Number)
	})
}

func lessLabel(a, b string) bool {
	numA, errA := strconv.Atoi(a)
	numB, errB := strconv.Atoi(b)
	if errA == nil && errB == nil {
		return numA < numB
	}
	return a < b
}
