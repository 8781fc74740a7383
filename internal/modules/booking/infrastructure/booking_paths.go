package infrastructure

import (
	"net/url"
	"strings"

	"github.com/abdelrahmanseada/Car-Parking/internal/modules/booking/application/port"
	"github.com/abdelrahmanseada/Car-Parking/internal/shared/failure"
)

// Reservation verbs hang off the /places tree while booking reads and
// payment live under /bookings.
const (
	bookingsPath   = "/bookings"
	bookingPayPath = "/bookings/pay"
)

func slotActionPath(garageID, slotID, action string) (string, error) {
	garage := strings.TrimSpace(garageID)
	slot := strings.TrimSpace(slotID)
	if garage == "" || slot == "" {
		return "", failure.Validation("garage and slot ids are required")
	}
	return "/places/" + url.PathEscape(garage) + "/parking/" + url.PathEscape(slot) + "/" + action, nil
}

func reservePath(garageID, slotID string) (string, error) {
	return slotActionPath(garageID, slotID, "reserve")
}

func releasePath(garageID, slotID string) (string, error) {
	return slotActionPath(garageID, slotID, "release")
}

func bookingPath(bookingID string) (string, error) {
	id := strings.TrimSpace(bookingID)
	if id == "" {
		return "", port.ErrBookingNotFound
	}
	return bookingsPath + "/" + url.PathEscape(id), nil
}

func bookingEndPath(bookingID string) (string, error) {
	path, err := bookingPath(bookingID)
	if err != nil {
		return "", err
	}
	return path + "/end", nil
}
