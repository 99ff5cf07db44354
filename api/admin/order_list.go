package admin

import (
	"net/http"

	"amiasbakery_server/handling"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// ListOrders returns a paginated list of orders with optional status filtering
func (ar *AdminRoutesManager) ListOrders(w http.ResponseWriter, r *http.Request) {
	opts, err := handling.ParseOrderListOptions(r)
	if err != nil {
		gecho.BadRequest(w,
			gecho.WithMessage("Invalid query parameters"),
			gecho.WithData(map[string]string{"error": err.Error()}),
			gecho.Send(),
		)
		return
	}

	page, err := ar.orderService.ListOrders(r.Context(), opts.Status, opts.Limit, opts.Offset)
	if err != nil {
		ar.logger.Error("Failed to get orders",
			gecho.Field("error", err),
			gecho.Field("status", opts.Status),
			gecho.Field("limit", opts.Limit),
			gecho.Field("offset", opts.Offset))
		gecho.InternalServerError(w,
			gecho.WithMessage("Failed to fetch orders"),
			gecho.Send(),
		)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"orders":     page.Data,
			"pagination": page.Pagination,
		}),
		gecho.Send(),
	)
}

// GetOrderDetails returns a specific order with its lines
func (ar *AdminRoutesManager) GetOrderDetails(w http.ResponseWriter, r *http.Request) {
	orderId, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		gecho.BadRequest(w,
			gecho.WithMessage("Invalid order id"),
			gecho.WithData(map[string]string{"error": err.Error()}),
			gecho.Send(),
		)
		return
	}

	order, err := ar.orderService.GetOrder(r.Context(), orderId)
	if err != nil {
		handling.HandleError(err, "failed to fetch order", ar.logger, w)
		return
	}
	if order == nil {
		gecho.NotFound(w,
			gecho.WithMessage("Order not found"),
			gecho.Send(),
		)
		return
	}

	gecho.Success(w,
		gecho.WithData(order),
		gecho.Send(),
	)
}
