package mockbackend

import "strconv"

// wireTimeLayout is the second-resolution textual form every timestamp
// goes out in.
const wireTimeLayout = "2006-01-02 15:04:05"

func snakeUser(account Account) map[string]any {
	return map[string]any{
		"user_id":      account.ID,
		"full_name":    account.Name,
		"email":        account.Email,
		"phone_number": account.Phone,
		"avatar_url":   account.Avatar,
		"type":         account.Role,
	}
}

// garageListResponse renders the listing shape: snake_case fields with
// numbers serialized as strings, wrapped twice.
func garageListResponse(garages []Garage) map[string]any {
	items := make([]map[string]any, 0, len(garages))
	for _, garage := range garages {
		items = append(items, map[string]any{
			"garage_id":       garage.ID,
			"garage_name":     garage.Name,
			"description":     garage.Description,
			"photo_url":       garage.Image,
			"stars":           strconv.FormatFloat(garage.Rating, 'f', -1, 64),
			"price_per_hour":  strconv.FormatFloat(garage.PricePerHour, 'f', -1, 64),
			"total_spots":     strconv.Itoa(len(garage.Slots)),
			"available_spots": strconv.Itoa(garage.Available()),
			"coordinates":     map[string]any{"lat": garage.Lat, "long": garage.Lng},
			"address":         garage.Address,
			"city":            garage.City,
			"features":        garage.Amenities,
		})
	}
	return map[string]any{"data": map[string]any{"garages": items}}
}

// garageDetail renders the bare camelCase object the detail route sends.
func garageDetail(garage Garage) map[string]any {
	return map[string]any{
		"id":             garage.ID,
		"name":           garage.Name,
		"description":    garage.Description,
		"image":          garage.Image,
		"rating":         garage.Rating,
		"pricePerHour":   garage.PricePerHour,
		"totalSlots":     len(garage.Slots),
		"availableSlots": garage.Available(),
		"location": map[string]any{
			"lat":     garage.Lat,
			"lng":     garage.Lng,
			"address": garage.Address,
			"city":    garage.City,
		},
		"amenities": garage.Amenities,
	}
}

func slotSnake(slot Slot) map[string]any {
	return map[string]any{
		"parking_spot_id": slot.ID,
		"spot_number":     slot.Number,
		"floor_number":    slot.Level,
		"vehicle_type":    slot.VehicleSize,
		"hourly_rate":     slot.PricePerHour,
		"is_booked":       slot.Booked,
	}
}

func slotCamel(slot Slot) map[string]any {
	status := "available"
	if slot.Booked {
		status = "occupied"
	}
	return map[string]any{
		"slotId":       slot.ID,
		"number":       slot.Number,
		"level":        slot.Level,
		"vehicleSize":  slot.VehicleSize,
		"pricePerHour": slot.PricePerHour,
		"status":       status,
	}
}

// bookingSnake renders a booking the way the booking routes spell it:
// numeric id, string total and a denormalized garage container.
func bookingSnake(booking Booking) map[string]any {
	return map[string]any{
		"booking_id":      booking.ID,
		"user_id":         booking.UserID,
		"parking_spot_id": booking.SlotID,
		"spot_number":     booking.SlotNumber,
		"vehicle_plate":   booking.VehiclePlate,
		"status":          booking.Status,
		"start_time":      booking.Start.Format(wireTimeLayout),
		"end_time":        booking.End.Format(wireTimeLayout),
		"duration_hours":  booking.DurationHours,
		"total_amount":    strconv.FormatFloat(booking.Total, 'f', 2, 64),
		"garage": map[string]any{
			"id":   booking.GarageID,
			"name": booking.GarageName,
		},
	}
}
