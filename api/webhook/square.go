package webhook

import (
	"errors"
	"io"
	"net/http"

	"amiasbakery_server/handling"
	"amiasbakery_server/lib"

	"github.com/MonkyMars/gecho"
)

// HandleSquareWebhook verifies and applies a Square notification. The raw
// body is read untouched because the signature covers its exact bytes.
func (wrm *WebhookRoutesManager) HandleSquareWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		gecho.BadRequest(w,
			gecho.WithMessage("Unreadable request body"),
			gecho.Send(),
		)
		return
	}

	err = wrm.webhookService.HandleSquareEvent(r.Context(), body, r.Header.Get(SignatureHeader))
	if errors.Is(err, lib.ErrInvalidSignature) {
		gecho.Unauthorized(w,
			gecho.WithMessage("Invalid signature"),
			gecho.WithData(map[string]string{"error": "invalid signature"}),
			gecho.Send(),
		)
		return
	}
	if err != nil {
		handling.HandleError(err, "webhook processing failed", wrm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]bool{"ok": true}),
		gecho.Send(),
	)
}
