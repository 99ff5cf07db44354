package admin

import (
	"net/http"

	"amiasbakery_server/api/middleware"
	"amiasbakery_server/handling"

	"github.com/MonkyMars/gecho"
)

// SweepAbandonedOrders runs the abandoned checkout sweep now instead of
// waiting for the next tick.
func (ar *AdminRoutesManager) SweepAbandonedOrders(w http.ResponseWriter, r *http.Request) {
	cancelled, err := ar.sweeperService.SweepOnce(r.Context())
	if err != nil {
		handling.HandleError(err, "manual sweep failed", ar.logger, w)
		return
	}

	if claims, ok := middleware.GetClaimsFromContext(r.Context()); ok {
		ar.logger.Info("Manual sweep", gecho.Field("sub", claims.Sub), gecho.Field("cancelled", cancelled))
	}

	gecho.Success(w,
		gecho.WithData(map[string]int{"cancelled": cancelled}),
		gecho.Send(),
	)
}
