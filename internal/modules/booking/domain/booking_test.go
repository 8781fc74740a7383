package domain

import (
	"testing"
	"time"

	"github.com/abdelrahmanseada/Car-Parking/internal/shared/normalization"
)

func TestNormalizeBookingCoercesFields(t *testing.T) {
	booking, err := NormalizeBooking(map[string]any{
		"booking_id":      float64(301),
		"place_id":        "G1",
		"user_id":         "U7",
		"parking_spot_id": "S12",
		"state":           "Booked",
		"total_amount":    "12.50",
		"vehicle_plate":   "ABC-123",
		"start_time":      "2026-08-23 09:00:00",
		"end_time":        "2026-08-23T11:00:00Z",
		"duration_hours":  "2",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if booking.ID != "301" {
		t.Fatalf("expected id 301, got %q", booking.ID)
	}
	if booking.GarageID != "G1" || booking.UserID != "U7" || booking.SlotID != "S12" {
		t.Fatalf("unexpected references: %+v", booking)
	}
	if booking.Status != StatusConfirmed {
		t.Fatalf("expected confirmed, got %q", booking.Status)
	}
	if booking.TotalPrice != 12.5 {
		t.Fatalf("expected 12.5, got %v", booking.TotalPrice)
	}
	if booking.DurationHours != 2 {
		t.Fatalf("expected 2 hours, got %d", booking.DurationHours)
	}
	if booking.Start.Hour() != 9 {
		t.Fatalf("unexpected start: %v", booking.Start)
	}
}

func TestNormalizeBookingRequiresIdentityAndPlate(t *testing.T) {
	_, err := NormalizeBooking(map[string]any{"vehiclePlate": "ABC-123"})
	if err == nil {
		t.Fatal("expected an error for a booking without id")
	}

	_, err = NormalizeBooking(map[string]any{"id": "B1"})
	if err == nil {
		t.Fatal("expected an error for a booking without plate")
	}
	normErr, ok := normalization.AsError(err)
	if !ok {
		t.Fatalf("expected a normalization error, got %T", err)
	}
	if normErr.Entity != "booking" {
		t.Fatalf("unexpected entity %q", normErr.Entity)
	}
}

func TestNormalizeBookingDerivesDurationFromWindow(t *testing.T) {
	booking, err := NormalizeBooking(map[string]any{
		"id":           "B1",
		"vehiclePlate": "XYZ-9",
		"start":        "2026-08-23 08:00:00",
		"end":          "2026-08-23 11:00:00",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.DurationHours != 3 {
		t.Fatalf("expected 3 derived hours, got %d", booking.DurationHours)
	}
}

func TestNormalizeBookingReadsGarageSnapshot(t *testing.T) {
	booking, err := NormalizeBooking(map[string]any{
		"id":           "B1",
		"vehiclePlate": "XYZ-9",
		"place": map[string]any{
			"id":   "G7",
			"name": "Harbor Garage",
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.GarageID != "G7" {
		t.Fatalf("expected snapshot id, got %q", booking.GarageID)
	}
	if booking.GarageName != "Harbor Garage" {
		t.Fatalf("expected snapshot name, got %q", booking.GarageName)
	}
}

func TestBuildBucketsPrefersBackendPartition(t *testing.T) {
	payload := map[string]any{
		"data": map[string]any{
			"current": []any{
				map[string]any{"id": "B1", "vehiclePlate": "AAA-1", "status": "active"},
			},
			"past": []any{
				map[string]any{"id": "B2", "vehiclePlate": "BBB-2", "status": "completed"},
				map[string]any{"id": "B3", "vehiclePlate": "CCC-3", "status": "cancelled"},
			},
		},
	}

	buckets, dropped := BuildBuckets(payload)
	if dropped != 0 {
		t.Fatalf("expected no drops, got %d", dropped)
	}
	if len(buckets.Current) != 1 || len(buckets.Past) != 2 {
		t.Fatalf("unexpected partition: %d current, %d past", len(buckets.Current), len(buckets.Past))
	}
	if buckets.Current[0].ID != "B1" {
		t.Fatalf("unexpected current booking: %+v", buckets.Current[0])
	}
}

func TestBuildBucketsPartitionsFlatList(t *testing.T) {
	payload := map[string]any{
		"bookings": []any{
			map[string]any{"id": "B1", "vehiclePlate": "AAA-1", "status": "pending"},
			map[string]any{"id": "B2", "vehiclePlate": "BBB-2", "status": "upcoming"},
			map[string]any{"id": "B3", "vehiclePlate": "CCC-3", "status": "active"},
			map[string]any{"id": "B4", "vehiclePlate": "DDD-4", "status": "completed"},
			map[string]any{"id": "B5", "vehiclePlate": "EEE-5", "status": "cancelled"},
		},
	}

	buckets, dropped := BuildBuckets(payload)
	if dropped != 0 {
		t.Fatalf("expected no drops, got %d", dropped)
	}
	if len(buckets.Current) != 3 {
		t.Fatalf("expected 3 current, got %d", len(buckets.Current))
	}
	if len(buckets.Past) != 2 {
		t.Fatalf("expected 2 past, got %d", len(buckets.Past))
	}
}

func TestBuildBucketsDropsUnusableItems(t *testing.T) {
	payload := []any{
		map[string]any{"id": "B1", "vehiclePlate": "AAA-1"},
		map[string]any{"id": "B2"},
		"not even an object",
	}

	buckets, dropped := BuildBuckets(payload)
	if len(buckets.Current) != 1 {
		t.Fatalf("expected 1 usable booking, got %d", len(buckets.Current))
	}
	if dropped != 1 {
		t.Fatalf("expected 1 dropped item, got %d", dropped)
	}
}

func TestBuildBucketsDegradesOnUnrecognizablePayload(t *testing.T) {
	buckets, dropped := BuildBuckets("service unavailable")
	if len(buckets.Current) != 0 || len(buckets.Past) != 0 || dropped != 0 {
		t.Fatalf("expected empty buckets, got %+v dropped %d", buckets, dropped)
	}
}

func TestParseWhenFormats(t *testing.T) {
	expected := time.Date(2026, 8, 23, 10, 30, 0, 0, time.UTC)

	tests := []string{
		"2026-08-23 10:30:00",
		"2026-08-23T10:30:00Z",
		"2026-08-23T10:30:00",
	}
	for _, input := range tests {
		if got := parseWhen(input); !got.Equal(expected) {
			t.Fatalf("parseWhen(%q) = %v, expected %v", input, got, expected)
		}
	}

	if got := parseWhen("2026-08-23"); got.IsZero() {
		t.Fatal("date-only form must parse")
	}
	if got := parseWhen("1756000000"); got.Year() != 2025 {
		t.Fatalf("epoch seconds parsed to %v", got)
	}
	if got := parseWhen("1756000000000"); got.Year() != 2025 {
		t.Fatalf("epoch milliseconds parsed to %v", got)
	}
	if got := parseWhen("not a time"); !got.IsZero() {
		t.Fatalf("junk must stay zero, got %v", got)
	}
}
