package domain

import (
	"strings"

	"github.com/abdelrahmanseada/Car-Parking/internal/shared/normalization"
)

// SlotStatus is the three-way availability state of a reservable unit.
type SlotStatus string

const (
	SlotStatusAvailable SlotStatus = "available"
	SlotStatusOccupied  SlotStatus = "occupied"
	SlotStatusReserved  SlotStatus = "reserved"
)

// slotStatusAliases maps backend status spellings onto the canonical enum.
var slotStatusAliases = map[string]SlotStatus{
	"available":   SlotStatusAvailable,
	"free":        SlotStatusAvailable,
	"vacant":      SlotStatusAvailable,
	"open":        SlotStatusAvailable,
	"occupied":    SlotStatusOccupied,
	"booked":      SlotStatusOccupied,
	"taken":       SlotStatusOccupied,
	"busy":        SlotStatusOccupied,
	"unavailable": SlotStatusOccupied,
	"reserved":    SlotStatusReserved,
	"held":        SlotStatusReserved,
	"pending":     SlotStatusReserved,
}

// ParseSlotStatus recognizes a textual status value.
func ParseSlotStatus(raw string) (SlotStatus, bool) {
	status, found := slotStatusAliases[strings.ToLower(strings.TrimSpace(raw))]
	return status, found
}

// Status indicator key groups, in resolution order.
var (
	slotStatusKeys    = []string{"status", "state", "slotStatus", "slot_status"}
	slotBookedKeys    = []string{"isBooked", "is_booked", "booked", "isOccupied", "is_occupied"}
	slotAvailableKeys = []string{"isAvailable", "is_available", "available", "isFree", "is_free"}
)

// ResolveSlotStatus derives the canonical status from whichever indicator the
// payload carries. A recognizable string status always wins; the boolean
// forms take effect only without one, and the booked flags outrank the
// available flags when a payload carries both.
func ResolveSlotStatus(raw map[string]any) SlotStatus {
	if status, ok := ParseSlotStatus(normalization.FirstString(raw, slotStatusKeys...)); ok {
		return status
	}
	if booked, ok := normalization.FirstBool(raw, slotBookedKeys...); ok {
		if booked {
			return SlotStatusOccupied
		}
		return SlotStatusAvailable
	}
	if available, ok := normalization.FirstBool(raw, slotAvailableKeys...); ok {
		if available {
			return SlotStatusAvailable
		}
		return SlotStatusOccupied
	}
	return SlotStatusAvailable
}

// VehicleSize classifies what fits in a slot.
type VehicleSize string

const (
	VehicleSizeCompact  VehicleSize = "compact"
	VehicleSizeStandard VehicleSize = "standard"
	VehicleSizeLarge    VehicleSize = "large"
)

var vehicleSizeAliases = map[string]VehicleSize{
	"compact":  VehicleSizeCompact,
	"small":    VehicleSizeCompact,
	"standard": VehicleSizeStandard,
	"medium":   VehicleSizeStandard,
	"regular":  VehicleSizeStandard,
	"large":    VehicleSizeLarge,
	"big":      VehicleSizeLarge,
	"suv":      VehicleSizeLarge,
	"truck":    VehicleSizeLarge,
}

// ParseVehicleSize recognizes a size spelling, defaulting to standard.
func ParseVehicleSize(raw string) VehicleSize {
	if size, found := vehicleSizeAliases[strings.ToLower(strings.TrimSpace(raw))]; found {
		return size
	}
	return VehicleSizeStandard
}
