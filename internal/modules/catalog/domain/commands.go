package domain

// CreateGarageCommand is the admin payload for registering a new garage.
type CreateGarageCommand struct {
	Name         string   `json:"name" validate:"required,min=2"`
	Description  string   `json:"description"`
	Image        string   `json:"image"`
	PricePerHour float64  `json:"pricePerHour" validate:"gte=0"`
	Lat          float64  `json:"lat"`
	Lng          float64  `json:"lng"`
	Address      string   `json:"address"`
	City         string   `json:"city"`
	Amenities    []string `json:"amenities"`
}

// CreateSlotCommand is the admin payload for adding a reservable slot to a
// garage.
type CreateSlotCommand struct {
	Number       string  `json:"number" validate:"required"`
	Level        int     `json:"level"`
	VehicleSize  string  `json:"vehicleSize" validate:"omitempty,oneof=compact standard large"`
	PricePerHour float64 `json:"pricePerHour" validate:"gte=0"`
}

// Normalized canonicalizes the enum and price fields before the command is
// sent out.
func (c CreateSlotCommand) Normalized() CreateSlotCommand {
	c.VehicleSize = string(ParseVehicleSize(c.VehicleSize))
	if c.PricePerHour <= 0 {
		c.PricePerHour = DefaultPricePerHour
	}
	return c
}
