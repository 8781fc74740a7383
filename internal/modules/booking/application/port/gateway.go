package port

import (
	"context"
	"errors"

	"github.com/abdelrahmanseada/Car-Parking/internal/modules/booking/domain"
	catalogdomain "github.com/abdelrahmanseada/Car-Parking/internal/modules/catalog/domain"
	"github.com/abdelrahmanseada/Car-Parking/internal/shared/failure"
)

var (
	ErrBookingNotFound = failure.NotFound("booking not found")

	// Tolerance signals, not user-facing failures. The lifecycle treats a
	// release of an already-free slot and an end of an already-completed
	// booking as success.
	ErrAlreadyReleased  = errors.New("slot already released")
	ErrAlreadyCompleted = errors.New("booking already completed")
)

// Gateway performs the booking calls. Reservation and release live under
// /places, the rest under /bookings; the gateway hides that asymmetry.
type Gateway interface {
	Reserve(ctx context.Context, cmd domain.ReserveCommand) (domain.Booking, error)
	Release(ctx context.Context, garageID, slotID string) error
	Pay(ctx context.Context, cmd domain.PayCommand) (domain.PaymentIntent, error)
	End(ctx context.Context, bookingID string) (domain.Booking, error)
	FetchBookings(ctx context.Context, userID string) (domain.Buckets, error)
	FetchBooking(ctx context.Context, bookingID string) (domain.Booking, error)
}

// SlotReader supplies the live slot view read immediately before an
// irreversible call. Stale status must never drive a reservation.
type SlotReader interface {
	Slot(ctx context.Context, garageID, slotID string) (catalogdomain.Slot, error)
}

// Notifier receives booking transitions for live-update consumers. The
// channel is optional; lifecycle correctness never depends on delivery.
type Notifier interface {
	BookingChanged(booking domain.Booking)
}
