package services

import (
	"context"
	"fmt"
	"time"

	"amiasbakery_server/database"
	"amiasbakery_server/lib"
	"amiasbakery_server/structs/tables"

	"github.com/MonkyMars/gecho"
)

const maxUpcomingSlots = 40

// CatalogService serves menu items and pickup slots. It only ever reads,
// through the read-only handle.
type CatalogService struct {
	logger *gecho.Logger
	db     *database.DB
	cache  *CacheService
	now    func() time.Time
}

func NewCatalogService(logger *gecho.Logger, db *database.DB, cache *CacheService) *CatalogService {
	return &CatalogService{
		logger: logger,
		db:     db,
		cache:  cache,
		now:    time.Now,
	}
}

// GetMenuPage returns the active items of a page in display order.
func (cs *CatalogService) GetMenuPage(ctx context.Context, page tables.MenuPage) ([]tables.MenuItem, error) {
	if !page.Valid() {
		return nil, lib.ErrNotFound
	}

	if cs.cache != nil {
		cached, err := cs.cache.GetMenuPage(page)
		if err != nil {
			cs.logger.Warn("Failed to read menu from cache", gecho.Field("error", err), gecho.Field("page", page))
		} else if cached != nil {
			return cached, nil
		}
	}

	items, err := database.Query[tables.MenuItem](cs.db).
		Where("page", page).
		Where("is_active", true).
		OrderBy("sort_order", database.ASC).
		All(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	if items == nil {
		items = []tables.MenuItem{}
	}

	if cs.cache != nil {
		if err := cs.cache.SetMenuPage(page, items); err != nil {
			cs.logger.Warn("Failed to cache menu page", gecho.Field("error", err), gecho.Field("page", page))
		}
	}

	return items, nil
}

// GetItemsByIds resolves active catalog items, keyed by id. Unknown or
// inactive ids are simply absent from the result.
func (cs *CatalogService) GetItemsByIds(ctx context.Context, ids []string) (map[string]*tables.MenuItem, error) {
	found := make(map[string]*tables.MenuItem, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	items, err := database.Query[tables.MenuItem](cs.db).
		WhereIn("id", ids).
		Where("is_active", true).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", lib.MapPgError(err))
	}

	for i := range items {
		found[items[i].Id] = &items[i]
	}
	return found, nil
}

// UpcomingSlots lists bookable slots from today on, ordered by date then window.
func (cs *CatalogService) UpcomingSlots(ctx context.Context) ([]tables.PickupSlot, error) {
	today := cs.now().UTC().Format(time.DateOnly)

	slots, err := database.Query[tables.PickupSlot](cs.db).
		WhereOp("pickup_date", ">=", today).
		Where("blackout", false).
		WhereRaw("reserved < capacity").
		OrderBy("pickup_date", database.ASC).
		OrderBy("pickup_window", database.ASC).
		Limit(maxUpcomingSlots).
		All(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	if slots == nil {
		slots = []tables.PickupSlot{}
	}
	return slots, nil
}
