package services

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"slices"
	"time"

	"amiasbakery_server/database"
	"amiasbakery_server/lib"
	"amiasbakery_server/structs"
	"amiasbakery_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const orderNumberAttempts = 3

var openStatuses = []tables.OrderStatus{tables.OrderStatusPending, tables.OrderStatusPaymentLinkCreated}

// PaymentOutcome describes what recording a completed payment did.
type PaymentOutcome string

const (
	PaymentApplied       PaymentOutcome = "applied"
	PaymentDuplicate     PaymentOutcome = "duplicate"
	PaymentOrderNotFound PaymentOutcome = "order_not_found"
	PaymentMismatch      PaymentOutcome = "payment_mismatch"
	PaymentMissingId     PaymentOutcome = "missing_payment_id"
)

// OrderService owns orders and pickup slot reservations on the privileged handle.
type OrderService struct {
	logger *gecho.Logger
	cfg    *structs.Config
	db     *database.DB
	events EventPublisher
	now    func() time.Time
}

func NewOrderService(
	logger *gecho.Logger,
	cfg *structs.Config,
	db *database.DB,
	events EventPublisher,
) *OrderService {
	return &OrderService{
		logger: logger,
		cfg:    cfg,
		db:     db,
		events: events,
		now:    time.Now,
	}
}

// CreatePendingOrder reserves the requested pickup slot and stores the order
// with its lines. Both happen in one transaction: if the order cannot be
// written the reservation is rolled back with it.
func (os *OrderService) CreatePendingOrder(ctx context.Context, draft *structs.OrderDraft) (*tables.Order, error) {
	var lastErr error
	for range orderNumberAttempts {
		order, err := os.createPendingOrder(ctx, draft)
		if err == nil {
			os.logger.Info("Order created",
				gecho.Field("order_id", order.Id),
				gecho.Field("order_number", order.OrderNumber),
				gecho.Field("total_cents", order.TotalCents))
			publishAsync(os.logger, os.events, newOrderEvent(EventOrderCreated, order))
			return order, nil
		}
		if !errors.Is(err, lib.ErrConflict) {
			return nil, err
		}
		lastErr = err
		os.logger.Warn("Order number collision, retrying", gecho.Field("error", err))
	}
	return nil, lastErr
}

func (os *OrderService) createPendingOrder(ctx context.Context, draft *structs.OrderDraft) (order *tables.Order, err error) {
	tx, err := os.db.BeginTx(ctx, nil)
	if err != nil {
		os.logger.Error("Failed to begin transaction", gecho.Field("error", err))
		return nil, lib.MapPgError(err)
	}

	defer func() {
		if p := recover(); p != nil {
			os.logger.Error(fmt.Sprintf("PANIC RECOVERED: %v", p),
				gecho.Field("panic_value", p),
				gecho.Field("stack_trace", string(debug.Stack())))
			_ = tx.Rollback()
			order, err = nil, fmt.Errorf("panic recovered: %v", p)
		} else if err != nil {
			_ = tx.Rollback()
		} else if commitErr := tx.Commit(); commitErr != nil {
			order, err = nil, lib.MapPgError(commitErr)
		}
	}()

	slotId, err := os.reserveSlot(ctx, tx, draft.PickupDate, draft.PickupWindow)
	if err != nil {
		return nil, err
	}

	now := os.now().UTC()
	order = &tables.Order{
		Id:            uuid.New(),
		OrderNumber:   lib.GenerateOrderNumber(),
		CustomerName:  draft.CustomerName,
		CustomerEmail: draft.CustomerEmail,
		CustomerPhone: draft.CustomerPhone,
		SubtotalCents: draft.SubtotalCents,
		TotalCents:    draft.TotalCents,
		PickupDate:    draft.PickupDate,
		PickupWindow:  draft.PickupWindow,
		SlotId:        slotId,
		Status:        tables.OrderStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if _, err = tx.NewInsert().Model(order).Exec(ctx); err != nil {
		return nil, lib.MapPgError(err)
	}

	// Create order lines with pricing snapshots
	lines := make([]*tables.OrderLine, 0, len(draft.Lines))
	for i, l := range draft.Lines {
		lines = append(lines, &tables.OrderLine{
			Id:             uuid.New(),
			OrderId:        order.Id,
			MenuItemId:     l.ItemId,
			Position:       i,
			Quantity:       l.Quantity,
			ItemName:       l.Name,
			UnitPriceCents: l.UnitPriceCents,
			LineTotalCents: l.LineTotalCents(),
		})
	}

	if _, err = tx.NewInsert().Model(&lines).Exec(ctx); err != nil {
		return nil, lib.MapPgError(err)
	}

	order.Lines = lines
	return order, nil
}

// reserveSlot claims one unit of capacity with a single conditional update,
// so concurrent checkouts for the last unit cannot both succeed.
func (os *OrderService) reserveSlot(ctx context.Context, tx bun.IDB, date, window string) (uuid.UUID, error) {
	res, err := tx.NewUpdate().
		Model((*tables.PickupSlot)(nil)).
		Set("reserved = reserved + 1").
		Where("pickup_date = ?", date).
		Where("pickup_window = ?", window).
		Where("blackout = ?", false).
		Where("reserved < capacity").
		Exec(ctx)
	if err != nil {
		return uuid.Nil, lib.MapPgError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return uuid.Nil, err
	}

	slot, err := database.Query[tables.PickupSlot](tx).
		Where("pickup_date", date).
		Where("pickup_window", window).
		First(ctx)
	if err != nil {
		return uuid.Nil, lib.MapPgError(err)
	}

	switch {
	case slot == nil, slot.Blackout:
		return uuid.Nil, lib.ErrSlotUnavailable
	case affected == 0:
		return uuid.Nil, lib.ErrSlotFull
	}
	return slot.Id, nil
}

// AttachPaymentLink records the hosted payment link on a pending order.
func (os *OrderService) AttachPaymentLink(ctx context.Context, orderId uuid.UUID, link *structs.SquarePaymentLink) error {
	n, err := database.Query[tables.Order](os.db).
		Where("id", orderId).
		Where("status", tables.OrderStatusPending).
		Update(ctx, map[string]any{
			"status":           tables.OrderStatusPaymentLinkCreated,
			"payment_link_id":  link.Id,
			"payment_link_url": link.URL,
			"updated_at":       os.now().UTC(),
		})
	if err != nil {
		return lib.MapPgError(err)
	}
	if n == 0 {
		return fmt.Errorf("order %s is no longer pending: %w", orderId, lib.ErrConflict)
	}
	return nil
}

// ReleaseReservation moves an open order to a terminal status and gives its
// slot unit back. Only the call that performs the transition releases, so
// repeating it is harmless.
func (os *OrderService) ReleaseReservation(ctx context.Context, orderId uuid.UUID, to tables.OrderStatus) (bool, error) {
	settled, err := database.TransactionWithResult(ctx, os.db, func(ctx context.Context, tx bun.Tx) (*tables.Order, error) {
		order, err := database.FindByID[tables.Order](ctx, tx, orderId)
		if err != nil {
			return nil, lib.MapPgError(err)
		}
		if order == nil {
			return nil, lib.ErrNotFound
		}

		n, err := database.Query[tables.Order](tx).
			Where("id", orderId).
			WhereIn("status", openStatuses).
			Update(ctx, map[string]any{
				"status":     to,
				"updated_at": os.now().UTC(),
			})
		if err != nil {
			return nil, lib.MapPgError(err)
		}
		if n == 0 {
			return nil, nil
		}

		_, err = tx.NewUpdate().
			Model((*tables.PickupSlot)(nil)).
			Set("reserved = reserved - 1").
			Where("id = ?", order.SlotId).
			Where("reserved > 0").
			Exec(ctx)
		if err != nil {
			return nil, lib.MapPgError(err)
		}

		order.Status = to
		return order, nil
	})
	if err != nil {
		return false, err
	}
	if settled == nil {
		return false, nil
	}

	os.logger.Info("Pickup slot released",
		gecho.Field("order_id", orderId),
		gecho.Field("slot_id", settled.SlotId),
		gecho.Field("status", to))
	publishAsync(os.logger, os.events, newOrderEvent(EventOrderCancelled, settled))
	return true, nil
}

// MarkPaid records a completed Square payment. A payment id is applied to an
// order at most once; a repeat delivery reports PaymentDuplicate and changes nothing.
func (os *OrderService) MarkPaid(ctx context.Context, orderId uuid.UUID, paymentId string) (PaymentOutcome, error) {
	// Without an id the payment can neither be recorded nor deduplicated.
	if paymentId == "" {
		os.logger.Warn("Completed payment carries no payment id", gecho.Field("order_id", orderId))
		return PaymentMissingId, nil
	}

	var (
		outcome    PaymentOutcome
		order      *tables.Order
		rereserved bool
	)

	err := database.Transaction(ctx, os.db, func(ctx context.Context, tx bun.Tx) error {
		var err error
		order, err = database.FindByID[tables.Order](ctx, tx, orderId)
		if err != nil {
			return lib.MapPgError(err)
		}

		switch {
		case order == nil:
			outcome = PaymentOrderNotFound
			return nil
		case order.SquarePaymentId == paymentId:
			outcome = PaymentDuplicate
			return nil
		case order.SquarePaymentId != "":
			outcome = PaymentMismatch
			return nil
		}

		now := os.now().UTC()
		n, err := database.Query[tables.Order](tx).
			Where("id", orderId).
			WhereNull("square_payment_id").
			Update(ctx, map[string]any{
				"status":            tables.OrderStatusPaid,
				"square_payment_id": paymentId,
				"paid_at":           now,
				"updated_at":        now,
			})
		if err != nil {
			return lib.MapPgError(err)
		}
		if n == 0 {
			// Lost the race to a concurrent delivery.
			outcome = PaymentDuplicate
			return nil
		}

		if !order.Status.IsOpen() {
			// The slot was released when the order was settled; take it back if it is still free.
			res, err := tx.NewUpdate().
				Model((*tables.PickupSlot)(nil)).
				Set("reserved = reserved + 1").
				Where("id = ?", order.SlotId).
				Where("reserved < capacity").
				Exec(ctx)
			if err != nil {
				return lib.MapPgError(err)
			}
			affected, _ := res.RowsAffected()
			rereserved = affected > 0
		}

		outcome = PaymentApplied
		return nil
	})
	if err != nil {
		return "", err
	}

	switch outcome {
	case PaymentMismatch:
		os.logger.Warn("Order already carries a different payment",
			gecho.Field("order_id", orderId),
			gecho.Field("recorded_payment_id", order.SquarePaymentId),
			gecho.Field("payment_id", paymentId))
	case PaymentApplied:
		if !order.Status.IsOpen() {
			// Paid after the sweeper or a failed link released the slot.
			result := "rereserved"
			if !rereserved {
				result = "overbooked"
			}
			LatePayments.WithLabelValues(result).Inc()
			os.logger.Warn("Payment received for a settled order",
				gecho.Field("order_id", orderId),
				gecho.Field("previous_status", order.Status),
				gecho.Field("slot_id", order.SlotId),
				gecho.Field("slot_rereserved", rereserved),
				gecho.Field("payment_id", paymentId))
		}
		order.Status = tables.OrderStatusPaid
		publishAsync(os.logger, os.events, newOrderEvent(EventOrderPaid, order))
	}

	return outcome, nil
}

// GetOrder returns an order with its lines in request order, nil when missing.
func (os *OrderService) GetOrder(ctx context.Context, orderId uuid.UUID) (*tables.Order, error) {
	order, err := database.Query[tables.Order](os.db).
		Where("id", orderId).
		With("Lines").
		First(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	if order != nil {
		slices.SortFunc(order.Lines, func(a, b *tables.OrderLine) int { return a.Position - b.Position })
	}
	return order, nil
}

// ListOrders pages through orders, newest first, optionally filtered by status.
func (os *OrderService) ListOrders(ctx context.Context, status tables.OrderStatus, limit, offset int) (*database.PaginationResult[tables.Order], error) {
	q := database.Query[tables.Order](os.db).OrderBy("created_at", database.DESC)
	if status != "" {
		q = q.Where("status", status)
	}

	page, err := database.Paginate(ctx, q, limit, offset)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	return page, nil
}

// ListStaleOrders returns open orders created before cutoff, oldest first.
func (os *OrderService) ListStaleOrders(ctx context.Context, cutoff time.Time, limit int) ([]tables.Order, error) {
	orders, err := database.Query[tables.Order](os.db).
		WhereIn("status", openStatuses).
		WhereOp("created_at", "<", cutoff.UTC()).
		OrderBy("created_at", database.ASC).
		Limit(limit).
		All(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	return orders, nil
}
