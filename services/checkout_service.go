package services

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"amiasbakery_server/lib"
	"amiasbakery_server/structs"
	"amiasbakery_server/structs/tables"

	"github.com/MonkyMars/gecho"
)

const releaseTimeout = 10 * time.Second

// PaymentLinkIssuer creates hosted payment links for stored orders.
type PaymentLinkIssuer interface {
	CreatePaymentLink(ctx context.Context, order *tables.Order, redirectURL string) (*structs.SquarePaymentLink, error)
}

// CheckoutService runs a checkout end to end: validate and re-price, reserve
// and persist, then issue the payment link.
type CheckoutService struct {
	logger    *gecho.Logger
	cfg       *structs.Config
	validator *CheckoutValidator
	orders    *OrderService
	payments  PaymentLinkIssuer
}

func NewCheckoutService(
	logger *gecho.Logger,
	cfg *structs.Config,
	validator *CheckoutValidator,
	orders *OrderService,
	payments PaymentLinkIssuer,
) *CheckoutService {
	return &CheckoutService{
		logger:    logger,
		cfg:       cfg,
		validator: validator,
		orders:    orders,
		payments:  payments,
	}
}

// Checkout returns the payment link for a new order. origin is the caller's
// Origin header and may be empty.
func (cs *CheckoutService) Checkout(ctx context.Context, req *structs.CheckoutRequest, origin string) (*structs.CheckoutResult, error) {
	draft, err := cs.validator.Validate(ctx, req)
	if err != nil {
		cs.countOutcome(err)
		return nil, err
	}

	order, err := cs.orders.CreatePendingOrder(ctx, draft)
	if err != nil {
		cs.countOutcome(err)
		return nil, err
	}

	link, err := cs.payments.CreatePaymentLink(ctx, order, cs.redirectURL(origin, order))
	if err != nil {
		var integrityErr *lib.IntegrityError
		if !errors.As(err, &integrityErr) {
			cs.releaseAfterFailure(ctx, order)
		}
		cs.countOutcome(err)
		return nil, err
	}

	if err := cs.orders.AttachPaymentLink(ctx, order.Id, link); err != nil {
		cs.logger.Error("Failed to record payment link on order",
			gecho.Field("error", err),
			gecho.Field("order_id", order.Id),
			gecho.Field("payment_link_id", link.Id))
	}

	CheckoutOutcomes.WithLabelValues("ok").Inc()
	return &structs.CheckoutResult{URL: link.URL, OrderId: order.Id.String()}, nil
}

func (cs *CheckoutService) redirectURL(origin string, order *tables.Order) string {
	base := strings.TrimSpace(origin)
	if base == "" || base == "null" {
		base = cs.cfg.Server.SiteURL
	}
	return strings.TrimRight(base, "/") + "/checkout/success?orderId=" + url.QueryEscape(order.Id.String())
}

// releaseAfterFailure gives the slot back when no payment link exists. It
// must outlive a cancelled request, and its own failure is only logged.
func (cs *CheckoutService) releaseAfterFailure(ctx context.Context, order *tables.Order) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
	defer cancel()

	if _, err := cs.orders.ReleaseReservation(ctx, order.Id, tables.OrderStatusFailed); err != nil {
		cs.logger.Error("Failed to release pickup slot after payment link failure",
			gecho.Field("error", err),
			gecho.Field("order_id", order.Id),
			gecho.Field("slot_id", order.SlotId))
	}
}

func (cs *CheckoutService) countOutcome(err error) {
	var (
		validationErr *lib.ValidationError
		upstreamErr   *lib.UpstreamError
		integrityErr  *lib.IntegrityError
	)

	outcome := "error"
	switch {
	case errors.As(err, &validationErr):
		outcome = "invalid"
	case errors.Is(err, lib.ErrSlotFull):
		outcome = "slot_full"
	case errors.Is(err, lib.ErrSlotUnavailable):
		outcome = "slot_unavailable"
	case errors.As(err, &upstreamErr):
		outcome = "upstream_error"
	case errors.As(err, &integrityErr):
		outcome = "integrity_error"
	}
	CheckoutOutcomes.WithLabelValues(outcome).Inc()
}
