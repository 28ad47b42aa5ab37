package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type StateChangedEvent struct {
	Type      string `json:"type"`
	From      string `json:"from"`
	To        string `json:"to"`
	Timestamp string `json:"timestamp"`
}

// Notifier turns discovery state transitions into websocket events.
type Notifier struct {
	hub *Hub
	now func() time.Time
}

func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub, now: time.Now}
}

func (n *Notifier) PipelineState(requesterID uuid.UUID, from, to string) {
	if n == nil || n.hub == nil {
		return
	}

	b, err := json.Marshal(StateChangedEvent{
		Type:      "referral_state",
		From:      from,
		To:        to,
		Timestamp: n.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return
	}
	n.hub.Broadcast(requesterID, b)
}
