package domain

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/abdelrahmanseada/Car-Parking/internal/shared/normalization"
)

const (
	EntityBooking = "booking"
	EntitySlot    = "slot"
	EntityGarage  = "garage"

	ActionCreated   = "created"
	ActionUpdated   = "updated"
	ActionReserved  = "reserved"
	ActionReleased  = "released"
	ActionCompleted = "completed"
	ActionCancelled = "cancelled"
)

// Event is one live update pushed by the backend: something about a
// booking, slot or garage changed.
type Event struct {
	Entity     string         `json:"entity"`
	Action     string         `json:"action"`
	ResourceID string         `json:"resourceId,omitempty"`
	Data       map[string]any `json:"data,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
}

// Topic is the entity.action routing key.
func (e Event) Topic() string {
	return e.Entity + "." + e.Action
}

// DecodeEvent parses a pushed frame. The backend is as loose here as on
// its REST surface: entity and action hide under type/event synonyms or
// inside a dotted topic, the resource id under the usual id spellings.
// Frames with no recognizable entity are dropped, not errors; the feed is
// best-effort.
func DecodeEvent(raw []byte) (Event, bool) {
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Event{}, false
	}
	container := normalization.AsMap(payload)
	if container == nil {
		return Event{}, false
	}

	event := Event{
		Entity:     canonicalEntity(normalization.FirstString(container, "entity", "type", "kind")),
		Action:     strings.ToLower(normalization.FirstString(container, "action", "event", "name")),
		ResourceID: normalization.FirstString(container, "resourceId", "resource_id", "id", "bookingId", "booking_id", "slotId", "slot_id", "spotId", "spot_id"),
		Data:       normalization.FirstMap(container, "data", "payload", "body"),
		Timestamp:  time.Now().UTC(),
	}
	if event.Entity == "" || event.Action == "" {
		if topic := normalization.FirstString(container, "topic"); topic != "" {
			if idx := strings.LastIndex(topic, "."); idx > 0 {
				if event.Entity == "" {
					event.Entity = canonicalEntity(topic[:idx])
				}
				if event.Action == "" {
					event.Action = strings.ToLower(topic[idx+1:])
				}
			}
		}
	}
	if event.Entity == "" {
		return Event{}, false
	}
	if event.Action == "" {
		event.Action = ActionUpdated
	}
	return event, true
}

// canonicalEntity folds the frame's entity spelling onto the constants
// above, so a "place" or "parking_spot" frame reaches the garage and slot
// subscribers. Spellings outside the alias table pass through lowercased.
func canonicalEntity(raw string) string {
	entity := normalization.NormalizeEntity(raw)
	switch entity {
	case "bookings":
		return EntityBooking
	case "slots":
		return EntitySlot
	case "garages":
		return EntityGarage
	}
	return entity
}
