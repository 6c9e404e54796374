package realtime

import (
	"context"

	"github.com/paddleup/pickleplay/models"
)

// HubNotifier delivers ledger notifications to the affected user's
// personal room. It satisfies the services notification sink.
type HubNotifier struct {
	hub *Hub
}

func NewHubNotifier(hub *Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

func (n *HubNotifier) Notify(_ context.Context, notification models.Notification) error {
	room := UserRoom(notification.UserID)
	return n.hub.BroadcastToRoom(room, Envelope{
		Type:    "NOTIFICATION",
		Payload: notification,
		Room:    room,
	})
}
