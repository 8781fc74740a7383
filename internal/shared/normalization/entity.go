package normalization

import "strings"

// entityAliases maps the entity spellings seen across backend routes and
// event payloads to one canonical form. The backend is not consistent about
// roots: a garage is sometimes a "place", a slot is a "spot" or a
// "parking_spot" depending on the route that produced the payload.
var entityAliases = map[string]string{
	"":  "",
	"-": "",

	// Garages
	"garage":  "garages",
	"garages": "garages",
	"place":   "garages",
	"places":  "garages",

	// Slots
	"slot":          "slots",
	"slots":         "slots",
	"spot":          "slots",
	"spots":         "slots",
	"parking-slot":  "slots",
	"parking-slots": "slots",
	"parking-spot":  "slots",
	"parking-spots": "slots",
	"parkingslot":   "slots",
	"parkingslots":  "slots",
	"parkingspot":   "slots",
	"parkingspots":  "slots",

	// Floors
	"floor":  "floors",
	"floors": "floors",
	"level":  "floors",
	"levels": "floors",

	// Bookings
	"booking":      "bookings",
	"bookings":     "bookings",
	"reservation":  "bookings",
	"reservations": "bookings",

	// Users
	"user":    "users",
	"users":   "users",
	"profile": "users",
	"account": "users",
}

// NormalizeEntity converts an entity spelling to its canonical plural form.
// Casing, surrounding space and -/_ separators are ignored.
func NormalizeEntity(raw string) string {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	normalized := strings.ReplaceAll(trimmed, "_", "-")
	if canonical, found := entityAliases[normalized]; found {
		return canonical
	}
	return normalized
}

// IsKnownEntity reports whether raw resolves to a canonical entity name.
func IsKnownEntity(raw string) bool {
	switch NormalizeEntity(raw) {
	case "garages", "slots", "floors", "bookings", "users":
		return true
	default:
		return false
	}
}
