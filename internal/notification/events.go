package notification

import (
	"context"
	"fmt"

	"github.com/osmech/workshop-management/internal/events"
)

// Notifier delivers in-app notifications. *Service satisfies it.
type Notifier interface {
	Notify(recipient Recipient, typ Type, priority Priority, title, message string, category Category, relatedID *string) error
}

// RegisterEventHandlers subscribes notification delivery to order lifecycle
// events. Deliveries are broadcasts so the whole shop sees intake and
// stage changes.
func RegisterEventHandlers(bus *events.EventBus, notifier Notifier) {
	bus.Subscribe(events.EventTypeOrderCreated, func(ctx context.Context, event events.Event) error {
		e, ok := event.(*events.OrderCreatedEvent)
		if !ok {
			return fmt.Errorf("unexpected event payload for %s", event.EventType())
		}
		related := e.OrderNumber
		return notifier.Notify(
			Broadcast(),
			TypeInfo,
			PriorityNormal,
			fmt.Sprintf("Nova OS %s", e.OrderNumber),
			fmt.Sprintf("OS %s criada para %s (%s)", e.OrderNumber, e.CustomerName, e.Plate),
			CategoryOrder,
			&related,
		)
	})

	bus.Subscribe(events.EventTypeOrderDeleted, func(ctx context.Context, event events.Event) error {
		e, ok := event.(*events.OrderDeletedEvent)
		if !ok {
			return fmt.Errorf("unexpected event payload for %s", event.EventType())
		}
		related := e.OrderNumber
		return notifier.Notify(
			Broadcast(),
			TypeWarning,
			PriorityNormal,
			fmt.Sprintf("OS %s removida", e.OrderNumber),
			fmt.Sprintf("OS %s de %s foi removida", e.OrderNumber, e.CustomerName),
			CategoryOrder,
			&related,
		)
	})

	bus.Subscribe(events.EventTypeOrderStatusChanged, func(ctx context.Context, event events.Event) error {
		e, ok := event.(*events.OrderStatusChangedEvent)
		if !ok {
			return fmt.Errorf("unexpected event payload for %s", event.EventType())
		}
		related := e.OrderNumber
		return notifier.Notify(
			Broadcast(),
			TypeInfo,
			PriorityNormal,
			fmt.Sprintf("OS %s atualizada", e.OrderNumber),
			fmt.Sprintf("Status alterado de %s para %s", e.OldStatus, e.NewStatus),
			CategoryOrder,
			&related,
		)
	})
}
