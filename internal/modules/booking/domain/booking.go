package domain

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/abdelrahmanseada/Car-Parking/internal/shared/normalization"
)

// TimestampFormat is the zero-padded textual form the payment route insists
// on for start and end times.
const TimestampFormat = "2006-01-02 15:04:05"

// Booking field synonym tables, first match wins.
var (
	bookingIDKeys       = []string{"id", "_id", "bookingId", "booking_id", "reservationId", "reservation_id"}
	bookingUserKeys     = []string{"userId", "user_id", "customerId", "customer_id"}
	bookingGarageIDKeys = []string{"garageId", "garage_id", "placeId", "place_id"}
	bookingStatusKeys   = []string{"status", "state", "bookingStatus", "booking_status"}
	bookingEntityKeys   = []string{"booking", "reservation"}
	bookingListKeys     = []string{"bookings", "reservations", "items", "results"}
	currentBucketKeys   = []string{"current", "active", "upcoming"}
	pastBucketKeys      = []string{"past", "history", "previous"}

	bookingSlotKeys = []string{
		"slotId", "slot_id", "spotId", "spot_id",
		"parkingSpotId", "parking_spot_id", "parkingSlotId", "parking_slot_id",
	}
	bookingPriceKeys = []string{
		"totalPrice", "total_price", "totalAmount", "total_amount", "price", "amount",
	}
	bookingPlateKeys = []string{
		"vehiclePlate", "vehicle_plate", "plate", "licensePlate", "license_plate", "carPlate", "car_plate",
	}
	bookingStartKeys    = []string{"startTime", "start_time", "start", "startDate", "start_date", "from"}
	bookingEndKeys      = []string{"endTime", "end_time", "end", "endDate", "end_date", "to"}
	bookingDurationKeys = []string{"durationHours", "duration_hours", "duration", "hours"}
)

// timestampLayouts are tried in order when a time arrives as text. Epoch
// seconds and milliseconds are handled separately.
var timestampLayouts = []string{
	TimestampFormat,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Booking is one parking reservation. It moves between the current and past
// partitions of a listing by status and is never deleted client-side.
type Booking struct {
	ID            string
	GarageID      string
	GarageName    string
	UserID        string
	SlotID        string
	Status        Status
	TotalPrice    float64
	VehiclePlate  string
	Start         time.Time
	End           time.Time
	DurationHours int
}

// NormalizeBooking maps a raw payload onto a Booking. Identity and the
// vehicle plate are hard requirements; a missing total price stays zero so
// callers holding the slot rate can derive it.
func NormalizeBooking(raw map[string]any) (Booking, error) {
	id := normalization.FirstString(raw, bookingIDKeys...)
	if id == "" {
		return Booking{}, normalization.NewError("booking", "missing id")
	}
	plate := normalization.FirstString(raw, bookingPlateKeys...)
	if plate == "" {
		return Booking{}, normalization.NewError("booking", "missing vehicle plate")
	}

	booking := Booking{
		ID:           id,
		VehiclePlate: plate,
		GarageID:     normalization.FirstString(raw, bookingGarageIDKeys...),
		UserID:       normalization.FirstString(raw, bookingUserKeys...),
		SlotID:       normalization.FirstString(raw, bookingSlotKeys...),
		Status:       ParseStatus(normalization.FirstString(raw, bookingStatusKeys...)),
		Start:        parseWhen(normalization.FirstString(raw, bookingStartKeys...)),
		End:          parseWhen(normalization.FirstString(raw, bookingEndKeys...)),
	}

	// Some routes denormalize the garage under its own root instead of a
	// flat id.
	if snapshot := normalization.FirstMap(raw, "garage", "place"); snapshot != nil {
		if booking.GarageID == "" {
			booking.GarageID = normalization.FirstString(snapshot, "id", "_id", "garageId", "garage_id", "placeId", "place_id")
		}
		booking.GarageName = normalization.FirstString(snapshot, "name", "garageName", "garage_name", "title")
	}

	if price, ok := normalization.FirstFloat(raw, bookingPriceKeys...); ok && price >= 0 {
		booking.TotalPrice = price
	}
	if duration, ok := normalization.FirstInt(raw, bookingDurationKeys...); ok && duration > 0 {
		booking.DurationHours = duration
	}
	if booking.DurationHours == 0 && !booking.Start.IsZero() && booking.End.After(booking.Start) {
		booking.DurationHours = int(math.Round(booking.End.Sub(booking.Start).Hours()))
	}
	return booking, nil
}

// BuildBookingDetail unwraps a single-booking response and normalizes it.
func BuildBookingDetail(payload any) (Booking, error) {
	container := normalization.Unwrap(payload, bookingEntityKeys...)
	if container == nil {
		return Booking{}, normalization.NewError("booking", "payload is not an object")
	}
	return NormalizeBooking(container)
}

// Buckets partitions bookings the way a listing page renders them.
type Buckets struct {
	Current []Booking
	Past    []Booking
}

// BuildBuckets projects a bookings listing into the two partitions. A
// backend-provided partition is preferred; a flat list is split by status
// (completed and cancelled are past, everything else current). Items that
// cannot be normalized are dropped and counted.
func BuildBuckets(payload any) (Buckets, int) {
	if buckets, dropped, ok := partitionedPayload(payload); ok {
		return buckets, dropped
	}

	items := normalization.UnwrapList(payload, bookingListKeys...)
	buckets := Buckets{}
	dropped := 0
	for _, item := range normalization.ItemMaps(items) {
		booking, err := NormalizeBooking(item)
		if err != nil {
			dropped++
			continue
		}
		if booking.Status.IsPast() {
			buckets.Past = append(buckets.Past, booking)
		} else {
			buckets.Current = append(buckets.Current, booking)
		}
	}
	return buckets, dropped
}

// partitionedPayload recognizes an explicit {current, past} answer, either
// at the top level or one data level down.
func partitionedPayload(payload any) (Buckets, int, bool) {
	raw := normalization.AsMap(payload)
	if raw == nil {
		return Buckets{}, 0, false
	}
	if !hasBucketShape(raw) {
		if data := normalization.AsMap(raw["data"]); data != nil && hasBucketShape(data) {
			raw = data
		} else {
			return Buckets{}, 0, false
		}
	}

	current, droppedCurrent := normalizeBucket(raw, currentBucketKeys)
	past, droppedPast := normalizeBucket(raw, pastBucketKeys)
	return Buckets{Current: current, Past: past}, droppedCurrent + droppedPast, true
}

func hasBucketShape(raw map[string]any) bool {
	return normalization.FirstSlice(raw, currentBucketKeys...) != nil ||
		normalization.FirstSlice(raw, pastBucketKeys...) != nil
}

func normalizeBucket(raw map[string]any, keys []string) ([]Booking, int) {
	items := normalization.FirstSlice(raw, keys...)
	if items == nil {
		return nil, 0
	}
	bookings := make([]Booking, 0, len(items))
	dropped := 0
	for _, item := range normalization.ItemMaps(items) {
		booking, err := NormalizeBooking(item)
		if err != nil {
			dropped++
			continue
		}
		bookings = append(bookings, booking)
	}
	return bookings, dropped
}

// parseWhen reads a timestamp in any of the textual layouts the backend
// uses, falling back to epoch seconds or milliseconds.
func parseWhen(value string) time.Time {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return parsed
		}
	}
	if epoch, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		if epoch > 1_000_000_000_000 {
			return time.UnixMilli(epoch).UTC()
		}
		if epoch > 1_000_000_000 {
			return time.Unix(epoch, 0).UTC()
		}
	}
	return time.Time{}
}
