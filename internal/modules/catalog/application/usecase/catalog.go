package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/abdelrahmanseada/Car-Parking/internal/modules/catalog/application/port"
	"github.com/abdelrahmanseada/Car-Parking/internal/modules/catalog/domain"
	"github.com/abdelrahmanseada/Car-Parking/internal/shared/failure"
	"github.com/abdelrahmanseada/Car-Parking/internal/shared/validate"
)

const (
	garageCacheTTL  = 30 * time.Second
	garagesCacheKey = "garages"
	stalePrefix     = "stale:"
)

// Catalog serves garage and slot reads with a short-lived cache in front of
// the backend. Garage data is cached; slot status is perishable and is
// always re-fetched. When a refresh fails and an older copy exists, the
// older copy is served so a browsing page keeps rendering.
type Catalog struct {
	fetcher port.CatalogFetcher
	admin   port.CatalogAdmin
	cache   *cache.Cache
}

func NewCatalog(fetcher port.CatalogFetcher, admin port.CatalogAdmin) *Catalog {
	return &Catalog{
		fetcher: fetcher,
		admin:   admin,
		cache:   cache.New(garageCacheTTL, 2*garageCacheTTL),
	}
}

// Garages lists every garage.
func (c *Catalog) Garages(ctx context.Context) ([]domain.Garage, error) {
	return c.cachedList(garagesCacheKey, func() ([]domain.Garage, error) {
		return c.fetcher.FetchGarages(ctx)
	})
}

// Search lists garages whose name matches the given filter. A blank filter
// is the plain listing.
func (c *Catalog) Search(ctx context.Context, name string) ([]domain.Garage, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return c.Garages(ctx)
	}
	key := garagesCacheKey + ":search:" + strings.ToLower(trimmed)
	return c.cachedList(key, func() ([]domain.Garage, error) {
		return c.fetcher.SearchGarages(ctx, trimmed)
	})
}

// Garage fetches one garage by id.
func (c *Catalog) Garage(ctx context.Context, garageID string) (domain.Garage, error) {
	id := strings.TrimSpace(garageID)
	if id == "" {
		return domain.Garage{}, port.ErrGarageNotFound
	}
	key := "garage:" + id

	if hit, ok := c.cache.Get(key); ok {
		if garage, ok := hit.(domain.Garage); ok {
			return garage, nil
		}
	}
	garage, err := c.fetcher.FetchGarage(ctx, id)
	if err != nil {
		if stale, ok := c.staleGarage(key, err); ok {
			return stale, nil
		}
		return domain.Garage{}, err
	}
	c.cache.Set(key, garage, cache.DefaultExpiration)
	c.cache.Set(stalePrefix+key, garage, cache.NoExpiration)
	return garage, nil
}

// Slots fetches the live slot list of a garage. Never cached: booking
// decisions must run on the latest status the backend reported.
func (c *Catalog) Slots(ctx context.Context, garageID string) ([]domain.Slot, error) {
	id := strings.TrimSpace(garageID)
	if id == "" {
		return nil, port.ErrGarageNotFound
	}
	return c.fetcher.FetchSlots(ctx, id)
}

// Floors derives the floor list of a garage from its flat slots. The
// backend has no floor endpoint, so grouping by level is done here.
func (c *Catalog) Floors(ctx context.Context, garageID string) ([]domain.Floor, error) {
	id := strings.TrimSpace(garageID)
	if id == "" {
		return nil, port.ErrGarageNotFound
	}
	slots, err := c.fetcher.FetchSlots(ctx, id)
	if err != nil {
		return nil, err
	}
	return domain.BuildFloors(id, slots), nil
}

// Slot resolves a single slot by id. The backend has no single-slot
// endpoint, so the full list is fetched and filtered.
func (c *Catalog) Slot(ctx context.Context, garageID, slotID string) (domain.Slot, error) {
	target := strings.TrimSpace(slotID)
	if target == "" {
		return domain.Slot{}, port.ErrSlotNotFound
	}
	slots, err := c.Slots(ctx, garageID)
	if err != nil {
		return domain.Slot{}, err
	}
	for _, slot := range slots {
		if slot.ID == target {
			return slot, nil
		}
	}
	return domain.Slot{}, port.ErrSlotNotFound
}

// CreateGarage registers a new garage and drops every cached read, since
// listings and counts are stale the moment the backend accepts it.
func (c *Catalog) CreateGarage(ctx context.Context, cmd domain.CreateGarageCommand) (domain.Garage, error) {
	if err := validate.Struct(cmd); err != nil {
		return domain.Garage{}, err
	}
	garage, err := c.admin.CreateGarage(ctx, cmd)
	if err != nil {
		return domain.Garage{}, err
	}
	c.cache.Flush()
	return garage, nil
}

// AddSlot adds a reservable slot to a garage.
func (c *Catalog) AddSlot(ctx context.Context, garageID string, cmd domain.CreateSlotCommand) (domain.Slot, error) {
	id := strings.TrimSpace(garageID)
	if id == "" {
		return domain.Slot{}, port.ErrGarageNotFound
	}
	normalized := cmd.Normalized()
	if err := validate.Struct(normalized); err != nil {
		return domain.Slot{}, err
	}
	slot, err := c.admin.CreateSlot(ctx, id, normalized)
	if err != nil {
		return domain.Slot{}, err
	}
	c.cache.Flush()
	return slot, nil
}

// RemoveSlot deletes a slot from a garage.
func (c *Catalog) RemoveSlot(ctx context.Context, garageID, slotID string) error {
	id := strings.TrimSpace(garageID)
	if id == "" {
		return port.ErrGarageNotFound
	}
	target := strings.TrimSpace(slotID)
	if target == "" {
		return port.ErrSlotNotFound
	}
	if err := c.admin.DeleteSlot(ctx, id, target); err != nil {
		return err
	}
	c.cache.Flush()
	return nil
}

func (c *Catalog) cachedList(key string, fetch func() ([]domain.Garage, error)) ([]domain.Garage, error) {
	if hit, ok := c.cache.Get(key); ok {
		if garages, ok := hit.([]domain.Garage); ok {
			return garages, nil
		}
	}
	garages, err := fetch()
	if err != nil {
		if stale, ok := c.staleList(key, err); ok {
			return stale, nil
		}
		return nil, err
	}
	c.cache.Set(key, garages, cache.DefaultExpiration)
	c.cache.Set(stalePrefix+key, garages, cache.NoExpiration)
	return garages, nil
}

func (c *Catalog) staleList(key string, cause error) ([]domain.Garage, bool) {
	if !staleEligible(cause) {
		return nil, false
	}
	stale, ok := c.cache.Get(stalePrefix + key)
	if !ok {
		return nil, false
	}
	garages, ok := stale.([]domain.Garage)
	if !ok {
		return nil, false
	}
	slog.Warn("serving stale garage listing", slog.String("key", key), slog.Any("error", cause))
	return garages, true
}

func (c *Catalog) staleGarage(key string, cause error) (domain.Garage, bool) {
	if !staleEligible(cause) {
		return domain.Garage{}, false
	}
	stale, ok := c.cache.Get(stalePrefix + key)
	if !ok {
		return domain.Garage{}, false
	}
	garage, ok := stale.(domain.Garage)
	if !ok {
		return domain.Garage{}, false
	}
	slog.Warn("serving stale garage", slog.String("key", key), slog.Any("error", cause))
	return garage, true
}

// staleEligible limits the stale fallback to availability failures. A 404
// or validation answer is a real answer and must not be papered over.
func staleEligible(err error) bool {
	switch failure.Classify(err).Kind {
	case failure.KindNetwork, failure.KindTimeout, failure.KindServer:
		return true
	}
	return false
}
