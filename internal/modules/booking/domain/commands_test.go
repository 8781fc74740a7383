package domain

import (
	"testing"
	"time"
)

func TestPayCommandWireSerializesSnakeCase(t *testing.T) {
	start := time.Date(2026, 8, 23, 9, 0, 0, 0, time.UTC)
	cmd := PayCommand{
		ParkingSpotID: "S1",
		GarageID:      "G1",
		UserID:        "U1",
		TotalAmount:   10,
		Start:         start,
		End:           start.Add(2 * time.Hour),
		DurationHours: 2,
		PaymentMethod: "card",
		VehiclePlate:  "ABC-123",
	}

	body := cmd.Wire()

	if body["payment_method"] != "credit_card" {
		t.Fatalf("card must translate to credit_card, got %v", body["payment_method"])
	}
	if body["start_time"] != "2026-08-23 09:00:00" {
		t.Fatalf("unexpected start_time: %v", body["start_time"])
	}
	if body["end_time"] != "2026-08-23 11:00:00" {
		t.Fatalf("unexpected end_time: %v", body["end_time"])
	}
	if body["total_amount"] != 10.0 {
		t.Fatalf("unexpected total_amount: %v", body["total_amount"])
	}
	if body["parking_spot_id"] != "S1" || body["garage_id"] != "G1" || body["user_id"] != "U1" {
		t.Fatalf("unexpected identifiers: %v", body)
	}
	if body["vehicle_plate"] != "ABC-123" {
		t.Fatalf("unexpected vehicle_plate: %v", body["vehicle_plate"])
	}
}

func TestPayCommandWireOmitsBlankPlate(t *testing.T) {
	body := PayCommand{PaymentMethod: "cash"}.Wire()
	if _, present := body["vehicle_plate"]; present {
		t.Fatal("blank plate must not be sent")
	}
	if body["payment_method"] != "cash" {
		t.Fatalf("cash must pass through, got %v", body["payment_method"])
	}
}

func TestWirePaymentMethodFoldsCase(t *testing.T) {
	if got := wirePaymentMethod(" CARD "); got != "credit_card" {
		t.Fatalf("expected credit_card, got %q", got)
	}
	if got := wirePaymentMethod("Wallet"); got != "wallet" {
		t.Fatalf("expected wallet, got %q", got)
	}
}

func TestPaymentFromBookingPrefills(t *testing.T) {
	start := time.Date(2026, 8, 23, 9, 0, 0, 0, time.UTC)
	booking := Booking{
		ID:            "B1",
		GarageID:      "G1",
		UserID:        "U1",
		SlotID:        "S1",
		TotalPrice:    10,
		VehiclePlate:  "ABC-123",
		Start:         start,
		End:           start.Add(2 * time.Hour),
		DurationHours: 2,
	}

	cmd := PaymentFromBooking(booking, "card")
	if cmd.ParkingSpotID != "S1" || cmd.GarageID != "G1" || cmd.UserID != "U1" {
		t.Fatalf("unexpected identifiers: %+v", cmd)
	}
	if cmd.TotalAmount != 10 || cmd.DurationHours != 2 {
		t.Fatalf("unexpected amounts: %+v", cmd)
	}
	if cmd.PaymentMethod != "card" {
		t.Fatalf("unexpected method: %q", cmd.PaymentMethod)
	}
}
