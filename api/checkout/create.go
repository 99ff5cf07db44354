package checkout

import (
	"errors"
	"net/http"

	"amiasbakery_server/handling"
	"amiasbakery_server/lib"
	"amiasbakery_server/structs"

	"github.com/MonkyMars/gecho"
)

// CreateSquareLink validates a cart, reserves the pickup slot and answers with
// a hosted Square payment link.
func (crm *CheckoutRoutesManager) CreateSquareLink(w http.ResponseWriter, r *http.Request) {
	body, err := lib.DecodeBody[structs.CheckoutRequest](r)
	if err != nil {
		crm.logger.Debug("Malformed checkout body", gecho.Field("error", err))
		gecho.BadRequest(w,
			gecho.WithMessage(lib.ErrMalformedBody.Error()),
			gecho.WithData(map[string]string{"error": lib.ErrMalformedBody.Error()}),
			gecho.Send(),
		)
		return
	}

	result, err := crm.checkoutService.Checkout(r.Context(), body, r.Header.Get("Origin"))
	if err != nil {
		crm.writeCheckoutError(w, err)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Payment link created"),
		gecho.WithData(result),
		gecho.Send(),
	)
}

func (crm *CheckoutRoutesManager) writeCheckoutError(w http.ResponseWriter, err error) {
	var (
		validationErr *lib.ValidationError
		upstreamErr   *lib.UpstreamError
	)

	switch {
	case errors.As(err, &validationErr):
		gecho.BadRequest(w,
			gecho.WithMessage(validationErr.Error()),
			gecho.WithData(map[string]any{
				"error":  validationErr.Error(),
				"errors": validationErr.Errors,
			}),
			gecho.Send(),
		)

	case errors.Is(err, lib.ErrSlotUnavailable):
		gecho.BadRequest(w,
			gecho.WithMessage("Pickup slot is not available"),
			gecho.WithData(map[string]string{"error": err.Error()}),
			gecho.Send(),
		)

	case errors.Is(err, lib.ErrSlotFull):
		gecho.Conflict(w,
			gecho.WithMessage("Pickup slot is full"),
			gecho.WithData(map[string]string{"error": err.Error()}),
			gecho.Send(),
		)

	case errors.As(err, &upstreamErr):
		// Mirror Square's status so the storefront can tell auth from outage.
		gecho.NewErr(w,
			gecho.WithStatus(upstreamErr.Status),
			gecho.WithMessage("Square request failed"),
			gecho.WithData(map[string]any{
				"error":  "Square request failed",
				"status": upstreamErr.Status,
				"square": upstreamErr.Details(),
			}),
			gecho.Send(),
		)

	default:
		handling.HandleError(err, "checkout failed", crm.logger, w)
	}
}
