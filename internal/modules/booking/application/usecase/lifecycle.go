package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/abdelrahmanseada/Car-Parking/internal/modules/booking/application/port"
	"github.com/abdelrahmanseada/Car-Parking/internal/modules/booking/domain"
	catalogdomain "github.com/abdelrahmanseada/Car-Parking/internal/modules/catalog/domain"
	"github.com/abdelrahmanseada/Car-Parking/internal/shared/failure"
	"github.com/abdelrahmanseada/Car-Parking/internal/shared/validate"
)

var (
	ErrSlotUnavailable = failure.Validation("parking slot is not available")
	ErrBookingFinished = failure.Validation("booking is already completed")
)

// NoopNotifier drops every transition signal. It is the default wiring
// while no live-update channel is attached.
type NoopNotifier struct{}

func (NoopNotifier) BookingChanged(domain.Booking) {}

// Lifecycle drives a booking from reservation through payment to
// completion. It re-checks slot availability before reserving, backfills
// fields sloppy backend responses omit, and absorbs the double-release and
// double-complete races the backend is known to produce.
type Lifecycle struct {
	gateway  port.Gateway
	slots    port.SlotReader
	notifier port.Notifier
}

func NewLifecycle(gateway port.Gateway, slots port.SlotReader, notifier port.Notifier) *Lifecycle {
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	return &Lifecycle{gateway: gateway, slots: slots, notifier: notifier}
}

// Reserve books a slot after confirming it is still available. The call is
// single-shot: no automatic retry, a retry is a new user decision. When the
// backend omits the total price the slot's hourly rate times the requested
// duration fills it in.
func (l *Lifecycle) Reserve(ctx context.Context, cmd domain.ReserveCommand) (domain.Booking, error) {
	if err := validate.Struct(cmd); err != nil {
		return domain.Booking{}, err
	}

	slot, err := l.slots.Slot(ctx, cmd.GarageID, cmd.SlotID)
	if err != nil {
		return domain.Booking{}, err
	}
	if slot.Status != catalogdomain.SlotStatusAvailable {
		return domain.Booking{}, ErrSlotUnavailable
	}

	booking, err := l.gateway.Reserve(ctx, cmd)
	if err != nil {
		return domain.Booking{}, err
	}
	if booking.GarageID == "" {
		booking.GarageID = cmd.GarageID
	}
	if booking.SlotID == "" {
		booking.SlotID = cmd.SlotID
	}
	if booking.DurationHours == 0 {
		booking.DurationHours = cmd.DurationHours
	}
	if booking.TotalPrice == 0 {
		booking.TotalPrice = slot.PricePerHour * float64(booking.DurationHours)
	}
	l.notifier.BookingChanged(booking)
	return booking, nil
}

// Release frees a slot directly. Releasing a slot that is already free is
// treated as success.
func (l *Lifecycle) Release(ctx context.Context, garageID, slotID string) error {
	if strings.TrimSpace(garageID) == "" || strings.TrimSpace(slotID) == "" {
		return failure.Validation("garage and slot ids are required")
	}
	err := l.gateway.Release(ctx, garageID, slotID)
	if errors.Is(err, port.ErrAlreadyReleased) {
		return nil
	}
	return err
}

// Cancel compensates a booking: it resolves the slot the booking holds,
// releases it, and reports the booking as cancelled. A slot the backend
// already freed does not fail the cancellation.
func (l *Lifecycle) Cancel(ctx context.Context, bookingID string) (domain.Booking, error) {
	booking, err := l.Get(ctx, bookingID)
	if err != nil {
		return domain.Booking{}, err
	}
	if booking.Status.IsCompleted() {
		return domain.Booking{}, ErrBookingFinished
	}
	if booking.GarageID != "" && booking.SlotID != "" {
		err := l.gateway.Release(ctx, booking.GarageID, booking.SlotID)
		if err != nil && !errors.Is(err, port.ErrAlreadyReleased) {
			return domain.Booking{}, err
		}
	} else {
		slog.Warn("cancelling booking without a slot reference",
			slog.String("booking_id", booking.ID))
	}
	booking.Status = domain.StatusCancelled
	l.notifier.BookingChanged(booking)
	return booking, nil
}

// Pay submits the payment for a booking.
func (l *Lifecycle) Pay(ctx context.Context, cmd domain.PayCommand) (domain.PaymentIntent, error) {
	if err := validate.Struct(cmd); err != nil {
		return domain.PaymentIntent{}, err
	}
	return l.gateway.Pay(ctx, cmd)
}

// End marks a booking completed. A backend complaint that the booking is
// already completed counts as success: the desired state holds either way.
func (l *Lifecycle) End(ctx context.Context, bookingID string) (domain.Booking, error) {
	id := strings.TrimSpace(bookingID)
	if id == "" {
		return domain.Booking{}, port.ErrBookingNotFound
	}

	booking, err := l.gateway.End(ctx, id)
	if err == nil {
		booking.Status = domain.StatusCompleted
		l.notifier.BookingChanged(booking)
		return booking, nil
	}
	if errors.Is(err, port.ErrAlreadyCompleted) {
		if fetched, fetchErr := l.gateway.FetchBooking(ctx, id); fetchErr == nil {
			fetched.Status = domain.StatusCompleted
			return fetched, nil
		}
		return domain.Booking{ID: id, Status: domain.StatusCompleted}, nil
	}
	return domain.Booking{}, err
}

// List returns the caller's bookings split into current and past. The
// listing never fails: any backend or normalization trouble degrades to
// empty buckets so screens render.
func (l *Lifecycle) List(ctx context.Context, userID string) domain.Buckets {
	buckets, err := l.gateway.FetchBookings(ctx, userID)
	if err != nil {
		slog.Warn("booking listing degraded to empty", slog.Any("error", err))
		return domain.Buckets{}
	}
	return buckets
}

// Get fetches a single booking by id.
func (l *Lifecycle) Get(ctx context.Context, bookingID string) (domain.Booking, error) {
	if strings.TrimSpace(bookingID) == "" {
		return domain.Booking{}, port.ErrBookingNotFound
	}
	return l.gateway.FetchBooking(ctx, bookingID)
}
