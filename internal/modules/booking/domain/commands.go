package domain

import (
	"strings"
	"time"
)

// ReserveCommand holds the caller's inputs for the single allocation call.
// The ids ride the path, not the body.
type ReserveCommand struct {
	GarageID      string `json:"-" validate:"required"`
	SlotID        string `json:"-" validate:"required"`
	VehiclePlate  string `json:"vehiclePlate,omitempty" validate:"omitempty,min=3"`
	DurationHours int    `json:"durationHours" validate:"required,min=1"`
}

// PayCommand holds everything the payment route requires. Timestamps go out
// in TimestampFormat and the method name is translated to the backend's
// token; see Wire.
type PayCommand struct {
	ParkingSpotID string    `validate:"required"`
	GarageID      string    `validate:"required"`
	UserID        string    `validate:"required"`
	TotalAmount   float64   `validate:"gt=0"`
	Start         time.Time `validate:"required"`
	End           time.Time `validate:"required,gtfield=Start"`
	DurationHours int       `validate:"required,min=1"`
	PaymentMethod string    `validate:"required,oneof=card credit_card cash wallet"`
	VehiclePlate  string    `validate:"omitempty,min=3"`
}

// Wire renders the snake_case body the payment route insists on. The
// caller-facing "card" method becomes the backend's "credit_card".
func (c PayCommand) Wire() map[string]any {
	body := map[string]any{
		"parking_spot_id": c.ParkingSpotID,
		"garage_id":       c.GarageID,
		"user_id":         c.UserID,
		"total_amount":    c.TotalAmount,
		"start_time":      c.Start.Format(TimestampFormat),
		"end_time":        c.End.Format(TimestampFormat),
		"duration_hours":  c.DurationHours,
		"payment_method":  wirePaymentMethod(c.PaymentMethod),
	}
	if plate := strings.TrimSpace(c.VehiclePlate); plate != "" {
		body["vehicle_plate"] = plate
	}
	return body
}

// PaymentFromBooking pre-fills a payment for a reserved booking. The caller
// picks the method; everything else comes from the booking itself.
func PaymentFromBooking(booking Booking, method string) PayCommand {
	return PayCommand{
		ParkingSpotID: booking.SlotID,
		GarageID:      booking.GarageID,
		UserID:        booking.UserID,
		TotalAmount:   booking.TotalPrice,
		Start:         booking.Start,
		End:           booking.End,
		DurationHours: booking.DurationHours,
		PaymentMethod: method,
		VehiclePlate:  booking.VehiclePlate,
	}
}

func wirePaymentMethod(method string) string {
	normalized := strings.ToLower(strings.TrimSpace(method))
	if normalized == "card" {
		return "credit_card"
	}
	return normalized
}
