package infrastructure

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/abdelrahmanseada/Car-Parking/internal/modules/catalog/application/port"
	"github.com/abdelrahmanseada/Car-Parking/internal/modules/catalog/domain"
	"github.com/abdelrahmanseada/Car-Parking/internal/platform/transport"
	"github.com/abdelrahmanseada/Car-Parking/internal/shared/normalization"
)

// CatalogHTTPClient implements the catalog ports over the REST backend.
// Whatever envelope a route wraps its payload in, the domain normalizers
// flatten it here, at the boundary.
type CatalogHTTPClient struct {
	transport *transport.Client
}

func NewCatalogHTTPClient(client *transport.Client) *CatalogHTTPClient {
	return &CatalogHTTPClient{transport: client}
}

func (c *CatalogHTTPClient) FetchGarages(ctx context.Context) ([]domain.Garage, error) {
	return c.fetchGarageList(ctx, garagesPath, nil)
}

func (c *CatalogHTTPClient) SearchGarages(ctx context.Context, name string) ([]domain.Garage, error) {
	query := url.Values{}
	if trimmed := strings.TrimSpace(name); trimmed != "" {
		query.Set("name", trimmed)
	}
	return c.fetchGarageList(ctx, garageSearchPath, query)
}

func (c *CatalogHTTPClient) FetchGarage(ctx context.Context, garageID string) (domain.Garage, error) {
	path, err := garagePath(garageID)
	if err != nil {
		return domain.Garage{}, err
	}

	res, err := c.transport.Send(ctx, transport.Request{Method: http.MethodGet, Path: path})
	if err != nil {
		return domain.Garage{}, err
	}
	payload, err := res.Decode()
	if err != nil {
		return domain.Garage{}, normalization.NewError("garage", "invalid json payload")
	}
	return domain.BuildGarageDetail(payload)
}

func (c *CatalogHTTPClient) FetchSlots(ctx context.Context, garageID string) ([]domain.Slot, error) {
	path, err := garageSlotsPath(garageID)
	if err != nil {
		return nil, err
	}

	res, err := c.transport.Send(ctx, transport.Request{Method: http.MethodGet, Path: path})
	if err != nil {
		return nil, err
	}
	payload, err := res.Decode()
	if err != nil {
		return nil, normalization.NewError("slots", "invalid json payload")
	}
	slots, dropped := domain.BuildSlots(payload)
	if slots == nil {
		return nil, normalization.NewError("slots", "payload is not a listing")
	}
	if dropped > 0 {
		slog.Warn("slot listing items dropped", slog.String("garageId", garageID), slog.Int("count", dropped))
	}
	return slots, nil
}

func (c *CatalogHTTPClient) CreateGarage(ctx context.Context, cmd domain.CreateGarageCommand) (domain.Garage, error) {
	res, err := c.transport.Send(ctx, transport.Request{Method: http.MethodPost, Path: garagesPath, Body: cmd})
	if err != nil {
		return domain.Garage{}, err
	}
	payload, err := res.Decode()
	if err != nil {
		return domain.Garage{}, normalization.NewError("garage", "invalid json payload")
	}
	return domain.BuildGarageDetail(payload)
}

func (c *CatalogHTTPClient) CreateSlot(ctx context.Context, garageID string, cmd domain.CreateSlotCommand) (domain.Slot, error) {
	path, err := adminSlotsPath(garageID)
	if err != nil {
		return domain.Slot{}, err
	}

	res, err := c.transport.Send(ctx, transport.Request{Method: http.MethodPost, Path: path, Body: cmd})
	if err != nil {
		return domain.Slot{}, err
	}
	payload, err := res.Decode()
	if err != nil {
		return domain.Slot{}, normalization.NewError("slot", "invalid json payload")
	}
	return domain.BuildSlotDetail(payload)
}

func (c *CatalogHTTPClient) DeleteSlot(ctx context.Context, garageID, slotID string) error {
	path, err := adminSlotPath(garageID, slotID)
	if err != nil {
		return err
	}
	_, err = c.transport.Send(ctx, transport.Request{Method: http.MethodDelete, Path: path})
	return err
}

func (c *CatalogHTTPClient) fetchGarageList(ctx context.Context, path string, query url.Values) ([]domain.Garage, error) {
	res, err := c.transport.Send(ctx, transport.Request{Method: http.MethodGet, Path: path, Query: query})
	if err != nil {
		return nil, err
	}
	payload, err := res.Decode()
	if err != nil {
		return nil, normalization.NewError("garages", "invalid json payload")
	}
	garages, dropped := domain.BuildGarages(payload)
	if garages == nil {
		return nil, normalization.NewError("garages", "payload is not a listing")
	}
	if dropped > 0 {
		slog.Warn("garage listing items dropped", slog.String("path", path), slog.Int("count", dropped))
	}
	return garages, nil
}

var (
	_ port.CatalogFetcher = (*CatalogHTTPClient)(nil)
	_ port.CatalogAdmin   = (*CatalogHTTPClient)(nil)
)
