package port

import (
	"context"

	"github.com/abdelrahmanseada/Car-Parking/internal/modules/catalog/domain"
	"github.com/abdelrahmanseada/Car-Parking/internal/shared/failure"
)

var (
	ErrGarageNotFound = failure.NotFound("garage not found")
	ErrSlotNotFound   = failure.NotFound("parking slot not found")
)

// CatalogFetcher reads garages and their slots from the backend.
type CatalogFetcher interface {
	FetchGarages(ctx context.Context) ([]domain.Garage, error)
	SearchGarages(ctx context.Context, name string) ([]domain.Garage, error)
	FetchGarage(ctx context.Context, garageID string) (domain.Garage, error)
	FetchSlots(ctx context.Context, garageID string) ([]domain.Slot, error)
}

// CatalogAdmin mutates the catalog. The backend restricts these routes to
// admin users; the client only forwards the calls.
type CatalogAdmin interface {
	CreateGarage(ctx context.Context, cmd domain.CreateGarageCommand) (domain.Garage, error)
	CreateSlot(ctx context.Context, garageID string, cmd domain.CreateSlotCommand) (domain.Slot, error)
	DeleteSlot(ctx context.Context, garageID, slotID string) error
}
