package services

import (
	"fmt"
	"strings"
	"sync"

	"amiasbakery_server/lib"
	"amiasbakery_server/structs"
	"amiasbakery_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/resend/resend-go/v3"
)

var (
	client     *resend.Client
	clientOnce = sync.Once{}
)

// Mailer sends a plain-text message.
type Mailer interface {
	SendEmail(to []string, subject string, text string) error
}

type EmailService struct {
	logger *gecho.Logger
	cfg    *structs.Config
	client *resend.Client
}

func NewEmailService(logger *gecho.Logger, cfg *structs.Config) *EmailService {
	return &EmailService{
		logger: logger,
		cfg:    cfg,
		client: getEmailClient(cfg.Email.ApiKey),
	}
}

func getEmailClient(apiKey string) *resend.Client {
	clientOnce.Do(func() {
		client = resend.NewClient(apiKey)
	})
	return client
}

func (es *EmailService) SendEmail(to []string, subject string, text string) error {
	params := &resend.SendEmailRequest{
		From:    es.cfg.Email.From,
		To:      to,
		Text:    text,
		Subject: subject,
	}

	sent, err := es.client.Emails.Send(params)
	if err != nil {
		es.logger.Error("Failed to send email", gecho.Field("error", err), gecho.Field("to", to))
		return err
	}

	es.logger.Info("Email sent", gecho.Field("id", sent.Id), gecho.Field("subject", subject))
	return nil
}

// FormatPaidOrderEmail renders the plain-text notification the bakery inbox
// receives once an order is paid. The total is taken from the stored subtotal.
func FormatPaidOrderEmail(order *tables.Order, paymentId string) (subject string, body string) {
	var b strings.Builder

	b.WriteString("NEW PAID ORDER\n\n")
	fmt.Fprintf(&b, "Order: %s\n", order.OrderNumber)
	fmt.Fprintf(&b, "Name: %s\n", order.CustomerName)
	fmt.Fprintf(&b, "Email: %s\n", orDash(order.CustomerEmail))
	fmt.Fprintf(&b, "Phone: %s\n", orDash(order.CustomerPhone))
	fmt.Fprintf(&b, "Pickup: %s (%s)\n\n", orDash(order.PickupDate), orDash(order.PickupWindow))

	b.WriteString("Items:\n")
	if len(order.Lines) == 0 {
		b.WriteString("- (no line items)\n")
	}
	for _, line := range order.Lines {
		fmt.Fprintf(&b, "- %d x %s\n", line.Quantity, line.ItemName)
	}

	fmt.Fprintf(&b, "\nTotal: %s\n", lib.FormatCents(order.SubtotalCents))
	b.WriteString("Payment: CARD\n")
	fmt.Fprintf(&b, "Square Payment ID: %s\n", paymentId)

	return fmt.Sprintf("New PAID Order - %s", order.CustomerName), b.String()
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
