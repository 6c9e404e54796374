package models

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationTournamentUpdate NotificationType = "tournament_update"
	NotificationLeagueUpdate     NotificationType = "league_update"
)

// Notification is the payload handed to the notification sink. Delivery
// mechanics (socket, email, push) are the sink's concern; the ledger only
// produces these and never fails a mutation over a delivery error.
type Notification struct {
	ID        uuid.UUID        `json:"id"`
	UserID    int              `json:"user_id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}
