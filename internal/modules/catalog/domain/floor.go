package domain

import (
	"fmt"
	"sort"

	"github.com/abdelrahmanseada/Car-Parking/internal/shared/normalization"
)

var (
	floorIDKeys    = []string{"id", "_id", "floorId", "floor_id"}
	floorNameKeys  = []string{"name", "floorName", "floor_name", "label", "title"}
	floorLevelKeys = []string{"level", "floorLevel", "floor_level", "number"}
	floorListKeys  = []string{"floors", "levels"}
)

// Floor groups the slots of one level. The backend has no floor resource;
// floors either arrive embedded in a garage payload or are derived from the
// flat slot list.
type Floor struct {
	ID             string
	Name           string
	Level          int
	TotalSlots     int
	AvailableSlots int
	Slots          []Slot
}

// NormalizeFloor maps an embedded floor payload. Floors are derived data, so
// a missing id is synthesized from the level instead of failing the parse.
func NormalizeFloor(raw map[string]any) Floor {
	level, _ := normalization.FirstInt(raw, floorLevelKeys...)
	floor := Floor{
		ID:    normalization.FirstString(raw, floorIDKeys...),
		Name:  normalization.FirstString(raw, floorNameKeys...),
		Level: level,
	}
	if floor.ID == "" {
		floor.ID = fmt.Sprintf("floor-%d", floor.Level)
	}
	if floor.Name == "" {
		floor.Name = levelName(floor.Level)
	}

	slots, _ := BuildSlots(raw)
	floor.Slots = slots
	floor.TotalSlots = len(slots)
	floor.AvailableSlots = countAvailable(slots)
	if total, ok := normalization.FirstInt(raw, "totalSlots", "total_slots", "capacity"); ok && len(slots) == 0 {
		floor.TotalSlots = clampCount(total)
	}
	if available, ok := normalization.FirstInt(raw, "availableSlots", "available_slots"); ok && len(slots) == 0 {
		floor.AvailableSlots = clampCount(available)
	}
	return floor
}

// BuildFloors derives the floor list of a garage from its flat slots:
// grouped by level, ordered ascending, slots ordered by label within each
// floor. Zero slots yield one synthetic empty floor so a rendering caller
// always has a level to show.
func BuildFloors(garageID string, slots []Slot) []Floor {
	if len(slots) == 0 {
		return []Floor{{
			ID:    syntheticFloorID(garageID, 0),
			Name:  levelName(0),
			Level: 0,
		}}
	}

	byLevel := make(map[int][]Slot)
	for _, slot := range slots {
		byLevel[slot.Level] = append(byLevel[slot.Level], slot)
	}
	levels := make([]int, 0, len(byLevel))
	for level := range byLevel {
		levels = append(levels, level)
	}
	sort.Ints(levels)

	floors := make([]Floor, 0, len(levels))
	for _, level := range levels {
		group := byLevel[level]
		SortSlots(group)
		floors = append(floors, Floor{
			ID:             syntheticFloorID(garageID, level),
			Name:           levelName(level),
			Level:          level,
			TotalSlots:     len(group),
			AvailableSlots: countAvailable(group),
			Slots:          group,
		})
	}
	return floors
}

func countAvailable(slots []Slot) int {
	count := 0
	for _, slot := range slots {
		if slot.Status == SlotStatusAvailable {
			count++
		}
	}
	return count
}

func syntheticFloorID(garageID string, level int) string {
	if garageID == "" {
		return fmt.Sprintf("floor-%d", level)
	}
	return fmt.Sprintf("%s-floor-%d", garageID, level)
}

func levelName(level int) string {
	if level < 0 {
		return fmt.Sprintf("Basement %d", -level)
	}
	return fmt.Sprintf("Level %d", level)
}

func clampCount(value int) int {
	if value < 0 {
		return 0
	}
	return value
}
