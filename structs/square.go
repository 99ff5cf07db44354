package structs

// Square Online Checkout wire types. Only the fields this service reads or
// writes are modelled.

type SquareMoney struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type SquareLineItem struct {
	Name           string      `json:"name"`
	Quantity       string      `json:"quantity"`
	BasePriceMoney SquareMoney `json:"base_price_money"`
}

type SquareOrder struct {
	LocationId string           `json:"location_id"`
	Note       string           `json:"note,omitempty"`
	LineItems  []SquareLineItem `json:"line_items"`
}

type SquareCheckoutOptions struct {
	RedirectURL string `json:"redirect_url"`
}

type CreatePaymentLinkRequest struct {
	IdempotencyKey  string                `json:"idempotency_key"`
	Order           SquareOrder           `json:"order"`
	CheckoutOptions SquareCheckoutOptions `json:"checkout_options"`
}

type SquarePaymentLink struct {
	Id      string `json:"id"`
	URL     string `json:"url"`
	OrderId string `json:"order_id"`
}

type CreatePaymentLinkResponse struct {
	PaymentLink *SquarePaymentLink `json:"payment_link"`
}

// SquareWebhookEvent is the envelope of a Square notification such as payment.updated.
type SquareWebhookEvent struct {
	MerchantId string `json:"merchant_id"`
	Type       string `json:"type"`
	EventId    string `json:"event_id"`
	Data       struct {
		Type   string `json:"type"`
		Id     string `json:"id"`
		Object struct {
			Payment *SquarePayment `json:"payment"`
		} `json:"object"`
	} `json:"data"`
}

type SquarePayment struct {
	Id      string `json:"id"`
	Status  string `json:"status"`
	Note    string `json:"note"`
	OrderId string `json:"order_id"`
}

const SquarePaymentStatusCompleted = "COMPLETED"
