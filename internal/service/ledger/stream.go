package ledger

import (
	"context"

	"github.com/cmlabs-hris/ledger-backend-go/internal/domain/ledger"
	"github.com/cmlabs-hris/ledger-backend-go/internal/pkg/sse"
)

const (
	EventCreated = "transaction.created"
	EventUpdated = "transaction.updated"
	EventDeleted = "transaction.deleted"
)

// HubNotifier publishes committed ledger changes to the SSE hub.
type HubNotifier struct {
	hub *sse.Hub
}

func NewHubNotifier(hub *sse.Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

func (n *HubNotifier) Notify(effect ledger.Effect) {
	publish := func(event string, txs []ledger.Transaction) {
		for _, t := range txs {
			n.hub.Publish(ledger.StreamTopic, sse.Event{Event: event, Data: ledger.NewTransactionResponse(t)})
		}
	}
	publish(EventCreated, effect.Created)
	publish(EventUpdated, effect.Updated)
	publish(EventDeleted, effect.Deleted)
}

func subscribe(ctx context.Context, hub *sse.Hub) (<-chan ledger.StreamEvent, func()) {
	ch, cleanup := hub.Subscribe(ledger.StreamTopic)

	out := make(chan ledger.StreamEvent, 10)

	go func() {
		defer close(out)
		for {
			select {
			case event, ok := <-ch:
				if !ok {
					return
				}
				resp, ok := event.Data.(ledger.TransactionResponse)
				if !ok {
					continue
				}
				select {
				case out <- ledger.StreamEvent{Event: event.Event, Data: resp}:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, cleanup
}
