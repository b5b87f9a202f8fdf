package notification

import (
	"context"
	"log/slog"
	"time"

	"github.com/chayanin/inventory-api/internal"
)

// Sender is the outbound transport behind the dispatcher.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Dispatcher turns stock changes into best-effort push notifications.
// Delivery failures are logged and swallowed; the product mutation that
// triggered the alert has already committed and must not be rolled back.
type Dispatcher struct {
	sender Sender
	logger *slog.Logger
}

func NewDispatcher(sender Sender, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		sender: sender,
		logger: logger,
	}
}

func (d *Dispatcher) StockChanged(ctx context.Context, productName string, branchID int64, quantity int) {
	msg, ok := StockAlert(productName, branchID, quantity)
	if !ok {
		return
	}

	// the product mutation already committed; don't let a slow push hold it up
	ctx, cancel := internal.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := d.sender.Send(ctx, msg); err != nil {
		d.logger.Error("notification dispatch failed",
			"error", err,
			"title", msg.Title,
			"product", productName,
			"branch_id", branchID)
		return
	}

	d.logger.Info("notification dispatched", "title", msg.Title, "product", productName, "branch_id", branchID)
}
