package order

import (
	"math"
	"time"

	"github.com/osmech/workshop-management/internal"
	"gorm.io/datatypes"
)

// OSStatus is the service-order pipeline stage. The wire values are the
// Portuguese labels the product has always used; reordering or renaming
// them breaks stored data.
type OSStatus string

const (
	StatusPending      OSStatus = "Pendente"
	StatusDiagnosing   OSStatus = "Em Diagnóstico"
	StatusApproval     OSStatus = "Aguardando Aprovação"
	StatusWaitingParts OSStatus = "Aguardando Peças"
	StatusInProgress   OSStatus = "Em Execução"
	StatusCompleted    OSStatus = "Concluído"
	StatusPaid         OSStatus = "Finalizado/Pago"
)

// AllStatuses lists every stage in pipeline order. Stats responses
// zero-fill from this list.
func AllStatuses() []OSStatus {
	return []OSStatus{
		StatusPending,
		StatusDiagnosing,
		StatusApproval,
		StatusWaitingParts,
		StatusInProgress,
		StatusCompleted,
		StatusPaid,
	}
}

func (s OSStatus) Valid() bool {
	for _, st := range AllStatuses() {
		if s == st {
			return true
		}
	}
	return false
}

type ItemType string

const (
	ItemTypePart  ItemType = "PART"
	ItemTypeLabor ItemType = "LABOR"
)

func (t ItemType) Valid() bool {
	return t == ItemTypePart || t == ItemTypeLabor
}

type PaymentMethod string

const (
	PaymentCreditCard PaymentMethod = "CREDIT_CARD"
	PaymentDebitCard  PaymentMethod = "DEBIT_CARD"
	PaymentCash       PaymentMethod = "CASH"
	PaymentPix        PaymentMethod = "PIX"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCreditCard, PaymentDebitCard, PaymentCash, PaymentPix:
		return true
	}
	return false
}

// ServiceOrder is one repair job from intake to payment. Customer and
// vehicle data are snapshotted onto the order at creation time.
type ServiceOrder struct {
	ID          int64  `json:"id" gorm:"primaryKey"`
	OrderNumber string `json:"order_number" gorm:"column:order_number;uniqueIndex;not null"`

	CustomerName        string  `json:"customer_name" gorm:"column:customer_name;not null"`
	CustomerCPF         *string `json:"customer_cpf,omitempty" gorm:"column:customer_cpf"`
	Phone               string  `json:"phone"`
	VehicleModel        string  `json:"vehicle_model" gorm:"column:vehicle_model;not null"`
	VehicleManufacturer *string `json:"vehicle_manufacturer,omitempty" gorm:"column:vehicle_manufacturer"`
	VehicleYear         *int    `json:"vehicle_year,omitempty" gorm:"column:vehicle_year"`
	VehicleColor        *string `json:"vehicle_color,omitempty" gorm:"column:vehicle_color"`
	Plate               string  `json:"plate" gorm:"index;not null"`
	CurrentMileage      *int    `json:"current_mileage,omitempty" gorm:"column:current_mileage"`
	Complaint           string  `json:"complaint"`
	AcceptsNotification bool    `json:"accepts_notifications" gorm:"column:accepts_notifications;default:true"`

	Status             OSStatus `json:"status" gorm:"index;default:Pendente"`
	AssignedMechanicID *int64   `json:"assigned_mechanic_id,omitempty" gorm:"column:assigned_mechanic_id"`

	PartsCost          float64        `json:"parts_cost" gorm:"column:parts_cost;default:0"`
	LaborCost          float64        `json:"labor_cost" gorm:"column:labor_cost;default:0"`
	DiscountPercentage float64        `json:"discount_percentage" gorm:"column:discount_percentage;default:0"`
	TotalCost          float64        `json:"total_cost" gorm:"column:total_cost;default:0"`
	PaymentMethod      *PaymentMethod `json:"payment_method,omitempty" gorm:"column:payment_method"`
	PaymentDate        *time.Time     `json:"payment_date,omitempty" gorm:"column:payment_date"`
	FiscalNotes        *string        `json:"fiscal_notes,omitempty" gorm:"column:fiscal_notes"`

	// AIDiagnosis is an opaque payload produced outside this system. It is
	// stored and returned verbatim, never interpreted.
	AIDiagnosis   datatypes.JSON `json:"ai_diagnosis,omitempty" gorm:"column:ai_diagnosis_json"`
	MechanicNotes *string        `json:"mechanic_notes,omitempty" gorm:"column:mechanic_notes"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ServiceOrder) TableName() string {
	return "service_orders"
}

// RecomputeTotal reapplies the discount to the accumulated parts and labor
// cost, rounding to cents.
func (o *ServiceOrder) RecomputeTotal() {
	discount := o.DiscountPercentage / 100
	o.TotalCost = round2((o.PartsCost + o.LaborCost) * (1 - discount))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ServiceItem is a part or labor line on an order. It never exists outside
// its parent order and is removed with it.
type ServiceItem struct {
	ID              int64    `json:"id" gorm:"primaryKey"`
	OrderID         int64    `json:"order_id" gorm:"column:order_id;index;not null"`
	Code            *string  `json:"code,omitempty"`
	Description     string   `json:"description" gorm:"not null"`
	ItemType        ItemType `json:"item_type" gorm:"column:item_type;not null"`
	Quantity        int      `json:"quantity" gorm:"default:1"`
	UnitPrice       float64  `json:"unit_price" gorm:"column:unit_price;not null"`
	TotalPrice      float64  `json:"total_price" gorm:"column:total_price;not null"`
	InventoryItemID *int64   `json:"inventory_item_id,omitempty" gorm:"column:inventory_item_id"`
	Status          string   `json:"status" gorm:"default:PENDING"`
	MechanicID      *int64   `json:"mechanic_id,omitempty" gorm:"column:mechanic_id"`
	Notes           *string  `json:"notes,omitempty"`
}

func (ServiceItem) TableName() string {
	return "service_items"
}

// OrderCounter is the single-row table backing order number allocation.
// Incrementing it inside the creation transaction keeps numbers unique
// under concurrent creates, unlike deriving them from max(id).
type OrderCounter struct {
	ID         int64 `gorm:"primaryKey"`
	NextNumber int64 `gorm:"column:next_number"`
}

func (OrderCounter) TableName() string {
	return "order_counters"
}

var (
	ErrOrderNotFound  = internal.NewNotFoundError("service order not found", internal.ErrCodeOrderNotFound)
	ErrOrderFinalized = internal.NewConflictError("cannot delete a finalized order", internal.ErrCodeOrderFinalized)
)
