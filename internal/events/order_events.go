package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeOrderCreated       = "order.created"
	EventTypeOrderStatusChanged = "order.status_changed"
	EventTypeOrderDeleted       = "order.deleted"
)

type OrderCreatedEvent struct {
	BaseEvent
	OrderID      int64  `json:"order_id"`
	OrderNumber  string `json:"order_number"`
	CustomerName string `json:"customer_name"`
	Plate        string `json:"plate"`
}

func NewOrderCreatedEvent(orderID int64, orderNumber, customerName, plate string) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeOrderCreated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"order_id":      orderID,
				"order_number":  orderNumber,
				"customer_name": customerName,
				"plate":         plate,
			},
		},
		OrderID:      orderID,
		OrderNumber:  orderNumber,
		CustomerName: customerName,
		Plate:        plate,
	}
}

type OrderDeletedEvent struct {
	BaseEvent
	OrderID      int64  `json:"order_id"`
	OrderNumber  string `json:"order_number"`
	CustomerName string `json:"customer_name"`
}

func NewOrderDeletedEvent(orderID int64, orderNumber, customerName string) *OrderDeletedEvent {
	return &OrderDeletedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeOrderDeleted,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"order_id":      orderID,
				"order_number":  orderNumber,
				"customer_name": customerName,
			},
		},
		OrderID:      orderID,
		OrderNumber:  orderNumber,
		CustomerName: customerName,
	}
}

type OrderStatusChangedEvent struct {
	BaseEvent
	OrderID     int64  `json:"order_id"`
	OrderNumber string `json:"order_number"`
	OldStatus   string `json:"old_status"`
	NewStatus   string `json:"new_status"`
}

func NewOrderStatusChangedEvent(orderID int64, orderNumber, oldStatus, newStatus string) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeOrderStatusChanged,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"order_id":     orderID,
				"order_number": orderNumber,
				"old_status":   oldStatus,
				"new_status":   newStatus,
			},
		},
		OrderID:     orderID,
		OrderNumber: orderNumber,
		OldStatus:   oldStatus,
		NewStatus:   newStatus,
	}
}
