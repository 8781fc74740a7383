package usecase

import (
	"strings"
	"time"

	bookingport "github.com/abdelrahmanseada/Car-Parking/internal/modules/booking/application/port"
	bookingdomain "github.com/abdelrahmanseada/Car-Parking/internal/modules/booking/domain"
	"github.com/abdelrahmanseada/Car-Parking/internal/modules/realtime/domain"
)

// BookingNotifier bridges local booking transitions into the event stream,
// so subscribers see the user's own actions the same way they see pushed
// backend updates.
type BookingNotifier struct {
	registry *Registry
}

func NewBookingNotifier(registry *Registry) *BookingNotifier {
	return &BookingNotifier{registry: registry}
}

func (n *BookingNotifier) BookingChanged(booking bookingdomain.Booking) {
	action := strings.TrimSpace(string(booking.Status))
	if action == "" {
		action = domain.ActionUpdated
	}
	n.registry.Dispatch(domain.Event{
		Entity:     domain.EntityBooking,
		Action:     action,
		ResourceID: booking.ID,
		Data: map[string]any{
			"status":   string(booking.Status),
			"garageId": booking.GarageID,
			"slotId":   booking.SlotID,
		},
		Timestamp: time.Now().UTC(),
	})
}

var _ bookingport.Notifier = (*BookingNotifier)(nil)
