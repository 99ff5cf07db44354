package menu

import (
	"errors"
	"net/http"

	"amiasbakery_server/handling"
	"amiasbakery_server/lib"
	"amiasbakery_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type pickupSlotView struct {
	PickupDate   string `json:"pickup_date"`
	PickupWindow string `json:"pickup_window"`
	Remaining    int    `json:"remaining"`
}

// GetMenuPage handles GET /menu/{page}
func (mrm *MenuRoutesManager) GetMenuPage(w http.ResponseWriter, r *http.Request) {
	page := tables.MenuPage(chi.URLParam(r, "page"))

	items, err := mrm.catalogService.GetMenuPage(r.Context(), page)
	if errors.Is(err, lib.ErrNotFound) {
		gecho.NotFound(w,
			gecho.WithMessage("Unknown menu page"),
			gecho.Send(),
		)
		return
	}
	if err != nil {
		handling.HandleError(err, "failed to fetch menu", mrm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"page":  page,
			"items": items,
		}),
		gecho.Send(),
	)
}

// GetPickupSlots handles GET /pickup-slots
func (mrm *MenuRoutesManager) GetPickupSlots(w http.ResponseWriter, r *http.Request) {
	slots, err := mrm.catalogService.UpcomingSlots(r.Context())
	if err != nil {
		handling.HandleError(err, "failed to fetch pickup slots", mrm.logger, w)
		return
	}

	views := make([]pickupSlotView, 0, len(slots))
	for i := range slots {
		views = append(views, pickupSlotView{
			PickupDate:   slots[i].PickupDate,
			PickupWindow: slots[i].PickupWindow,
			Remaining:    slots[i].Remaining(),
		})
	}

	gecho.Success(w,
		gecho.WithData(views),
		gecho.Send(),
	)
}
