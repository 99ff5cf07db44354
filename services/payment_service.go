package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"amiasbakery_server/lib"
	"amiasbakery_server/structs"
	"amiasbakery_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

const paymentLinksPath = "/v2/online-checkout/payment-links"

// PaymentService talks to the Square Online Checkout API.
type PaymentService struct {
	logger *gecho.Logger
	cfg    *structs.Config
	client *http.Client
}

func NewPaymentService(logger *gecho.Logger, cfg *structs.Config) *PaymentService {
	return &PaymentService{
		logger: logger,
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Square.HTTPTimeout},
	}
}

// BuildPaymentLinkRequest maps a stored order onto the Square payload. Every
// call gets a fresh idempotency key.
func (ps *PaymentService) BuildPaymentLinkRequest(order *tables.Order, redirectURL string) *structs.CreatePaymentLinkRequest {
	items := make([]structs.SquareLineItem, 0, len(order.Lines))
	for _, line := range order.Lines {
		items = append(items, structs.SquareLineItem{
			Name:     line.ItemName,
			Quantity: strconv.Itoa(line.Quantity),
			BasePriceMoney: structs.SquareMoney{
				Amount:   line.UnitPriceCents,
				Currency: ps.cfg.Square.Currency,
			},
		})
	}

	return &structs.CreatePaymentLinkRequest{
		IdempotencyKey: uuid.NewString(),
		Order: structs.SquareOrder{
			LocationId: ps.cfg.Square.LocationID,
			Note:       lib.OrderMarker(order.Id),
			LineItems:  items,
		},
		CheckoutOptions: structs.SquareCheckoutOptions{RedirectURL: redirectURL},
	}
}

// CreatePaymentLink issues a hosted payment link for the order. A non-success
// answer comes back as *lib.UpstreamError, a success missing the link id or
// url as *lib.IntegrityError.
func (ps *PaymentService) CreatePaymentLink(ctx context.Context, order *tables.Order, redirectURL string) (*structs.SquarePaymentLink, error) {
	payload, err := json.Marshal(ps.BuildPaymentLinkRequest(order, redirectURL))
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ps.cfg.Square.BaseURL()+paymentLinksPath, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+ps.cfg.Square.AccessToken)
	req.Header.Set("Square-Version", ps.cfg.Square.APIVersion)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := ps.client.Do(req)
	if err != nil {
		ps.logger.Error("Square request failed",
			gecho.Field("error", err),
			gecho.Field("order_id", order.Id))
		body, _ := json.Marshal(map[string]string{"message": err.Error()})
		return nil, &lib.UpstreamError{Status: http.StatusBadGateway, Body: body}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read square response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		ps.logger.Warn("Square rejected payment link",
			gecho.Field("status", resp.StatusCode),
			gecho.Field("order_id", order.Id),
			gecho.Field("body", string(body)))
		return nil, &lib.UpstreamError{Status: resp.StatusCode, Body: body}
	}

	var parsed structs.CreatePaymentLinkResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, &lib.IntegrityError{Message: "square returned an unreadable payment link response", Err: err}
	}
	if parsed.PaymentLink == nil || parsed.PaymentLink.URL == "" || parsed.PaymentLink.Id == "" {
		ps.logger.Error("Square response is missing the payment link",
			gecho.Field("order_id", order.Id),
			gecho.Field("body", string(body)))
		return nil, &lib.IntegrityError{Message: "square response is missing the payment link url or id"}
	}

	return parsed.PaymentLink, nil
}
