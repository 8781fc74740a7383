package domain

import (
	"github.com/abdelrahmanseada/Car-Parking/internal/shared/normalization"
)

// Garage field synonym tables, first match wins.
var (
	garageIDKeys          = []string{"id", "_id", "garageId", "garage_id", "placeId", "place_id"}
	garageNameKeys        = []string{"name", "garageName", "garage_name", "title"}
	garageDescriptionKeys = []string{"description", "desc", "details", "about"}
	garageRatingKeys      = []string{"rating", "averageRating", "average_rating", "stars"}
	garagePriceKeys       = []string{"pricePerHour", "price_per_hour", "hourlyRate", "hourly_rate", "price", "rate"}
	garageAmenityKeys     = []string{"amenities", "features", "services"}
	garageEntityKeys      = []string{"garage", "place"}
	garageListKeys        = []string{"garages", "places", "items", "results"}

	garageImageKeys = []string{
		"image", "imageUrl", "image_url",
		"photo", "photoUrl", "photo_url",
		"picture", "pictureUrl", "picture_url",
		"thumbnail",
	}
	garageTotalKeys = []string{
		"totalSlots", "total_slots", "totalSpots", "total_spots", "capacity", "slotsCount", "slots_count",
	}
	garageFreeKeys = []string{
		"availableSlots", "available_slots", "availableSpots", "available_spots", "freeSlots", "free_slots",
	}
)

// Location synonym tables. Coordinates arrive nested under a container key
// on some routes and flat on the garage itself on others.
var (
	locationContainerKeys = []string{"location", "coordinates", "coords", "position"}
	latitudeKeys          = []string{"lat", "latitude"}
	longitudeKeys         = []string{"lng", "lon", "long", "longitude"}
	addressKeys           = []string{"address", "street", "addressLine", "address_line"}
	cityKeys              = []string{"city", "town"}
)

// Location is where a garage sits.
type Location struct {
	Lat     float64
	Lng     float64
	Address string
	City    string
}

// Garage is a parking facility. Read-only from the client's perspective
// except for admin creation.
type Garage struct {
	ID             string
	Name           string
	Description    string
	Image          string
	Rating         float64
	PricePerHour   float64
	Amenities      []string
	TotalSlots     int
	AvailableSlots int
	Location       Location
	Floors         []Floor
}

// NormalizeGarage maps a raw payload onto a Garage. Identity is the only
// hard requirement. A garage missing every image synonym gets an empty
// image, never a placeholder literal.
func NormalizeGarage(raw map[string]any) (Garage, error) {
	id := normalization.FirstString(raw, garageIDKeys...)
	if id == "" {
		return Garage{}, normalization.NewError("garage", "missing id")
	}

	garage := Garage{
		ID:          id,
		Name:        normalization.FirstString(raw, garageNameKeys...),
		Description: normalization.FirstString(raw, garageDescriptionKeys...),
		Image:       normalization.FirstString(raw, garageImageKeys...),
		Amenities:   normalization.AsStringSlice(normalization.FirstSlice(raw, garageAmenityKeys...)),
		Location:    resolveLocation(raw),
	}

	if rating, ok := normalization.FirstFloat(raw, garageRatingKeys...); ok && rating >= 0 {
		garage.Rating = rating
	}
	garage.PricePerHour = DefaultPricePerHour
	if price, ok := normalization.FirstFloat(raw, garagePriceKeys...); ok && price >= 0 {
		garage.PricePerHour = price
	}

	if total, ok := normalization.FirstInt(raw, garageTotalKeys...); ok {
		garage.TotalSlots = clampCount(total)
	}
	if free, ok := normalization.FirstInt(raw, garageFreeKeys...); ok {
		garage.AvailableSlots = clampCount(free)
	}
	if garage.AvailableSlots > garage.TotalSlots {
		garage.AvailableSlots = garage.TotalSlots
	}

	if rawFloors := normalization.FirstSlice(raw, floorListKeys...); rawFloors != nil {
		floors := make([]Floor, 0, len(rawFloors))
		for _, item := range normalization.ItemMaps(rawFloors) {
			floors = append(floors, NormalizeFloor(item))
		}
		garage.Floors = floors
	}
	return garage, nil
}

// BuildGarageDetail unwraps a single-garage response and normalizes it.
func BuildGarageDetail(payload any) (Garage, error) {
	container := normalization.Unwrap(payload, garageEntityKeys...)
	if container == nil {
		return Garage{}, normalization.NewError("garage", "payload is not an object")
	}
	return NormalizeGarage(container)
}

// BuildGarages projects a garage listing payload into normalized garages,
// dropping items without identity. The second return counts the drops.
func BuildGarages(payload any) ([]Garage, int) {
	items := normalization.UnwrapList(payload, garageListKeys...)
	if items == nil {
		return nil, 0
	}
	garages := make([]Garage, 0, len(items))
	dropped := 0
	for _, item := range normalization.ItemMaps(items) {
		garage, err := NormalizeGarage(item)
		if err != nil {
			dropped++
			continue
		}
		garages = append(garages, garage)
	}
	return garages, dropped
}

// resolveLocation reads coordinates and address parts, preferring the nested
// location container and falling back per field to the flat spelling.
func resolveLocation(raw map[string]any) Location {
	location := Location{}
	if container := normalization.FirstMap(raw, locationContainerKeys...); container != nil {
		location.Lat, _ = normalization.FirstFloat(container, latitudeKeys...)
		location.Lng, _ = normalization.FirstFloat(container, longitudeKeys...)
		location.Address = normalization.FirstString(container, addressKeys...)
		location.City = normalization.FirstString(container, cityKeys...)
	}
	if location.Lat == 0 && location.Lng == 0 {
		if lat, ok := normalization.FirstFloat(raw, latitudeKeys...); ok {
			location.Lat = lat
		}
		if lng, ok := normalization.FirstFloat(raw, longitudeKeys...); ok {
			location.Lng = lng
		}
	}
	if location.Address == "" {
		location.Address = normalization.FirstString(raw, addressKeys...)
	}
	if location.City == "" {
		location.City = normalization.FirstString(raw, cityKeys...)
	}
	return location
}
