package order

import (
	"errors"
	"time"

	"github.com/osmech/workshop-management/internal/auth"
	"gorm.io/datatypes"
)

// CreateOrderDTO is the intake payload for a new service order.
type CreateOrderDTO struct {
	CustomerName        string         `json:"customer_name"`
	CustomerCPF         *string        `json:"customer_cpf,omitempty"`
	Phone               string         `json:"phone"`
	VehicleModel        string         `json:"vehicle_model"`
	VehicleManufacturer *string        `json:"vehicle_manufacturer,omitempty"`
	VehicleYear         *int           `json:"vehicle_year,omitempty"`
	VehicleColor        *string        `json:"vehicle_color,omitempty"`
	Plate               string         `json:"plate"`
	CurrentMileage      *int           `json:"current_mileage,omitempty"`
	Complaint           string         `json:"complaint"`
	AcceptsNotification *bool          `json:"accepts_notifications,omitempty"`
	AIDiagnosis         datatypes.JSON `json:"ai_diagnosis,omitempty"`
}

func (dto CreateOrderDTO) Validate() error {
	if dto.CustomerName == "" {
		return errors.New("customer_name is required")
	}
	if dto.Phone == "" {
		return errors.New("phone is required")
	}
	if dto.VehicleModel == "" {
		return errors.New("vehicle_model is required")
	}
	if dto.Plate == "" {
		return errors.New("plate is required")
	}
	if dto.Complaint == "" {
		return errors.New("complaint is required")
	}
	return nil
}

// UpdateOrderDTO carries partial updates: nil fields stay untouched.
type UpdateOrderDTO struct {
	Status             *OSStatus      `json:"status,omitempty"`
	AssignedMechanicID *int64         `json:"assigned_mechanic_id,omitempty"`
	PartsCost          *float64       `json:"parts_cost,omitempty"`
	LaborCost          *float64       `json:"labor_cost,omitempty"`
	DiscountPercentage *float64       `json:"discount_percentage,omitempty"`
	TotalCost          *float64       `json:"total_cost,omitempty"`
	PaymentMethod      *PaymentMethod `json:"payment_method,omitempty"`
	PaymentDate        *time.Time     `json:"payment_date,omitempty"`
	FiscalNotes        *string        `json:"fiscal_notes,omitempty"`
	MechanicNotes      *string        `json:"mechanic_notes,omitempty"`
	AIDiagnosis        datatypes.JSON `json:"ai_diagnosis,omitempty"`
}

func (dto UpdateOrderDTO) Validate() error {
	if dto.Status != nil && !dto.Status.Valid() {
		return errors.New("invalid status value")
	}
	if dto.PaymentMethod != nil && !dto.PaymentMethod.Valid() {
		return errors.New("invalid payment method")
	}
	if dto.DiscountPercentage != nil && (*dto.DiscountPercentage < 0 || *dto.DiscountPercentage > 100) {
		return errors.New("discount_percentage must be between 0 and 100")
	}
	return nil
}

// AddItemDTO is the payload for POST /orders/{id}/items.
type AddItemDTO struct {
	Code            *string  `json:"code,omitempty"`
	Description     string   `json:"description"`
	ItemType        ItemType `json:"item_type"`
	Quantity        int      `json:"quantity,omitempty"`
	UnitPrice       float64  `json:"unit_price"`
	InventoryItemID *int64   `json:"inventory_item_id,omitempty"`
	MechanicID      *int64   `json:"mechanic_id,omitempty"`
	Notes           *string  `json:"notes,omitempty"`
}

func (dto AddItemDTO) Validate() error {
	if dto.Description == "" {
		return errors.New("description is required")
	}
	if !dto.ItemType.Valid() {
		return errors.New("item_type must be PART or LABOR")
	}
	if dto.Quantity < 0 {
		return errors.New("quantity cannot be negative")
	}
	if dto.UnitPrice < 0 {
		return errors.New("unit_price cannot be negative")
	}
	return nil
}

// ListFilters narrows order listings. Zero values mean "no filter".
type ListFilters struct {
	Status OSStatus
	Plate  string
	Limit  int
	Offset int
}

const (
	DefaultPageSize = 100
	MaxPageSize     = 500
)

// OrderDetail composes an order with its items and, when assigned, the
// mechanic's summary record.
type OrderDetail struct {
	ServiceOrder
	Items            []*ServiceItem `json:"items"`
	AssignedMechanic *auth.User     `json:"assigned_mechanic"`
}

// Stats is the response of GET /orders/stats.
type Stats struct {
	Total        int64              `json:"total"`
	ByStatus     map[OSStatus]int64 `json:"by_status"`
	TotalRevenue float64            `json:"total_revenue"`
}

// CreatedResponse is returned by POST /orders.
type CreatedResponse struct {
	ID          int64  `json:"id"`
	OrderNumber string `json:"order_number"`
	Message     string `json:"message"`
}
