package services

import (
	"context"
	"time"

	"amiasbakery_server/structs"
	"amiasbakery_server/structs/tables"

	"github.com/MonkyMars/gecho"
)

const sweepBatchSize = 100

// SweeperService cancels checkouts that never got paid and frees their slots.
type SweeperService struct {
	logger *gecho.Logger
	cfg    *structs.Config
	orders *OrderService
	now    func() time.Time
}

func NewSweeperService(logger *gecho.Logger, cfg *structs.Config, orders *OrderService) *SweeperService {
	return &SweeperService{
		logger: logger,
		cfg:    cfg,
		orders: orders,
		now:    time.Now,
	}
}

// Run sweeps on every interval until ctx is done.
func (ss *SweeperService) Run(ctx context.Context) {
	if !ss.cfg.Sweep.Enabled || ss.cfg.Sweep.Interval <= 0 {
		ss.logger.Info("Abandoned order sweeper disabled")
		return
	}

	ticker := time.NewTicker(ss.cfg.Sweep.Interval)
	defer ticker.Stop()

	ss.logger.Info("Abandoned order sweeper started",
		gecho.Field("interval", ss.cfg.Sweep.Interval.String()),
		gecho.Field("pending_ttl", ss.cfg.Sweep.PendingTTL.String()))

	for {
		select {
		case <-ctx.Done():
			ss.logger.Info("Abandoned order sweeper stopped")
			return
		case <-ticker.C:
			if _, err := ss.SweepOnce(ctx); err != nil {
				ss.logger.Error("Sweep failed", gecho.Field("error", err))
			}
		}
	}
}

// SweepOnce cancels open orders older than the pending TTL and reports how
// many it released.
func (ss *SweeperService) SweepOnce(ctx context.Context) (int, error) {
	cutoff := ss.now().Add(-ss.cfg.Sweep.PendingTTL)

	stale, err := ss.orders.ListStaleOrders(ctx, cutoff, sweepBatchSize)
	if err != nil {
		return 0, err
	}

	cancelled := 0
	for _, order := range stale {
		released, err := ss.orders.ReleaseReservation(ctx, order.Id, tables.OrderStatusCancelled)
		if err != nil {
			ss.logger.Error("Failed to cancel abandoned order",
				gecho.Field("error", err),
				gecho.Field("order_id", order.Id))
			continue
		}
		if released {
			cancelled++
		}
	}

	if cancelled > 0 {
		SweptOrders.Add(float64(cancelled))
		ss.logger.Info("Cancelled abandoned orders", gecho.Field("count", cancelled))
	}
	return cancelled, nil
}
