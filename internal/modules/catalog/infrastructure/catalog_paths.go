package infrastructure

import (
	"net/url"
	"strings"

	"github.com/abdelrahmanseada/Car-Parking/internal/modules/catalog/application/port"
)

// Garage reads live under /garages while slot administration lives under
// /places. Both roots name the same resource; the backend grew them apart.
const (
	garagesPath      = "/garages"
	garageSearchPath = "/garages/search"
)

func garagePath(garageID string) (string, error) {
	id := strings.TrimSpace(garageID)
	if id == "" {
		return "", port.ErrGarageNotFound
	}
	return garagesPath + "/" + url.PathEscape(id), nil
}

func garageSlotsPath(garageID string) (string, error) {
	base, err := garagePath(garageID)
	if err != nil {
		return "", err
	}
	return base + "/parking", nil
}

func adminSlotsPath(garageID string) (string, error) {
	id := strings.TrimSpace(garageID)
	if id == "" {
		return "", port.ErrGarageNotFound
	}
	return "/places/" + url.PathEscape(id) + "/parking", nil
}

func adminSlotPath(garageID, slotID string) (string, error) {
	base, err := adminSlotsPath(garageID)
	if err != nil {
		return "", err
	}
	id := strings.TrimSpace(slotID)
	if id == "" {
		return "", port.ErrSlotNotFound
	}
	return base + "/" + url.PathEscape(id), nil
}
