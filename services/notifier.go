package services

import (
	"context"

	"github.com/paddleup/pickleplay/models"
	"github.com/paddleup/pickleplay/repositories"
)

// Notifier is the notification sink the ledger emits into. Delivery is a
// collaborator concern; a failed delivery never fails or rolls back the
// ledger mutation that produced the notification.
type Notifier interface {
	Notify(ctx context.Context, n models.Notification) error
}

// TxRunner yields a scoped executor that commits when the callback
// returns nil and rolls back on any error or panic.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error
}
