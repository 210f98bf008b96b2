package order

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/osmech/workshop-management/internal"
	"github.com/osmech/workshop-management/internal/audit"
	"github.com/osmech/workshop-management/internal/auth"
	"github.com/osmech/workshop-management/internal/events"
)

// Repository is the data access surface for service orders.
type Repository interface {
	// Create allocates the order number and inserts the order in one
	// transaction.
	Create(o *ServiceOrder) error
	GetByID(id int64) (*ServiceOrder, error)
	List(filters ListFilters) ([]*ServiceOrder, error)
	Update(o *ServiceOrder) error
	// Delete removes the order and all of its items.
	Delete(o *ServiceOrder) error
	// AddItem inserts the item and persists the parent's updated financial
	// fields in one transaction.
	AddItem(item *ServiceItem, o *ServiceOrder) error
	ItemsForOrder(orderID int64) ([]*ServiceItem, error)
	Count() (int64, error)
	CountByStatus(status OSStatus) (int64, error)
	SumTotalCostByStatus(status OSStatus) (float64, error)
}

// MechanicResolver loads the summary record of an assigned mechanic.
// The auth repository satisfies it.
type MechanicResolver interface {
	GetByID(userID int64) (*auth.User, error)
}

type Service struct {
	repo      Repository
	mechanics MechanicResolver
	recorder  audit.Recorder
	bus       *events.EventBus
	logger    *slog.Logger
}

func NewService(repo Repository, mechanics MechanicResolver, recorder audit.Recorder, bus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		mechanics: mechanics,
		recorder:  recorder,
		bus:       bus,
		logger:    logger,
	}
}

// CreateOrder opens a new service order in the Pendente stage with zeroed
// financial fields. The plate is upper-cased before storage so the
// case-insensitive plate filter can match on a canonical form.
func (s *Service) CreateOrder(ctx context.Context, dto CreateOrderDTO, actor *auth.User) (*ServiceOrder, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	accepts := true
	if dto.AcceptsNotification != nil {
		accepts = *dto.AcceptsNotification
	}

	now := time.Now().UTC()
	o := &ServiceOrder{
		CustomerName:        dto.CustomerName,
		CustomerCPF:         dto.CustomerCPF,
		Phone:               dto.Phone,
		VehicleModel:        dto.VehicleModel,
		VehicleManufacturer: dto.VehicleManufacturer,
		VehicleYear:         dto.VehicleYear,
		VehicleColor:        dto.VehicleColor,
		Plate:               strings.ToUpper(dto.Plate),
		CurrentMileage:      dto.CurrentMileage,
		Complaint:           dto.Complaint,
		AcceptsNotification: accepts,
		Status:              StatusPending,
		AIDiagnosis:         dto.AIDiagnosis,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := s.repo.Create(o); err != nil {
		s.logger.Error("failed to create order", "error", err, "plate", o.Plate)
		return nil, err
	}

	_ = s.recorder.Record(audit.NewEntry(
		audit.ActionCreate, &o.OrderNumber, actor.ID, actor.Name,
		fmt.Sprintf("OS %s criada - %s - %s", o.OrderNumber, o.CustomerName, o.Plate),
	))

	_ = s.bus.Publish(ctx, events.NewOrderCreatedEvent(o.ID, o.OrderNumber, o.CustomerName, o.Plate))

	s.logger.Info("order created",
		"order_id", o.ID,
		"order_number", o.OrderNumber,
		"plate", o.Plate,
		"created_by", actor.ID)

	return o, nil
}

// UpdateOrder applies a partial update. Only supplied fields change; a
// status change is additionally recorded in the audit trail with the
// before and after values.
func (s *Service) UpdateOrder(ctx context.Context, id int64, dto UpdateOrderDTO, actor *auth.User) (*ServiceOrder, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	o, err := s.repo.GetByID(id)
	if err != nil {
		return nil, ErrOrderNotFound
	}

	oldStatus := o.Status

	if dto.Status != nil {
		o.Status = *dto.Status
	}
	if dto.AssignedMechanicID != nil {
		o.AssignedMechanicID = dto.AssignedMechanicID
	}
	if dto.PartsCost != nil {
		o.PartsCost = *dto.PartsCost
	}
	if dto.LaborCost != nil {
		o.LaborCost = *dto.LaborCost
	}
	if dto.DiscountPercentage != nil {
		o.DiscountPercentage = *dto.DiscountPercentage
	}
	if dto.TotalCost != nil {
		o.TotalCost = *dto.TotalCost
	}
	if dto.PaymentMethod != nil {
		o.PaymentMethod = dto.PaymentMethod
	}
	if dto.PaymentDate != nil {
		o.PaymentDate = dto.PaymentDate
	}
	if dto.FiscalNotes != nil {
		o.FiscalNotes = dto.FiscalNotes
	}
	if dto.MechanicNotes != nil {
		o.MechanicNotes = dto.MechanicNotes
	}
	if dto.AIDiagnosis != nil {
		o.AIDiagnosis = dto.AIDiagnosis
	}
	o.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(o); err != nil {
		s.logger.Error("failed to update order", "error", err, "order_id", id)
		return nil, err
	}

	if dto.Status != nil && *dto.Status != oldStatus {
		_ = s.recorder.Record(audit.NewEntry(
			audit.ActionUpdate, &o.OrderNumber, actor.ID, actor.Name,
			fmt.Sprintf("OS %s - Status alterado de %s para %s", o.OrderNumber, oldStatus, o.Status),
		))

		_ = s.bus.Publish(ctx, events.NewOrderStatusChangedEvent(o.ID, o.OrderNumber, string(oldStatus), string(o.Status)))

		s.logger.Info("order status changed",
			"order_number", o.OrderNumber,
			"old_status", oldStatus,
			"new_status", o.Status,
			"by", actor.ID)
	}

	return o, nil
}

// AddItem appends a part or labor line to an order and folds its total
// into the parent's cost fields, reapplying the discount.
func (s *Service) AddItem(orderID int64, dto AddItemDTO, actor *auth.User) (*ServiceItem, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	o, err := s.repo.GetByID(orderID)
	if err != nil {
		return nil, ErrOrderNotFound
	}

	quantity := dto.Quantity
	if quantity == 0 {
		quantity = 1
	}

	item := &ServiceItem{
		OrderID:         orderID,
		Code:            dto.Code,
		Description:     dto.Description,
		ItemType:        dto.ItemType,
		Quantity:        quantity,
		UnitPrice:       dto.UnitPrice,
		TotalPrice:      round2(dto.UnitPrice * float64(quantity)),
		InventoryItemID: dto.InventoryItemID,
		Status:          "PENDING",
		MechanicID:      dto.MechanicID,
		Notes:           dto.Notes,
	}

	if item.ItemType == ItemTypePart {
		o.PartsCost = round2(o.PartsCost + item.TotalPrice)
	} else {
		o.LaborCost = round2(o.LaborCost + item.TotalPrice)
	}
	o.RecomputeTotal()
	o.UpdatedAt = time.Now().UTC()

	if err := s.repo.AddItem(item, o); err != nil {
		s.logger.Error("failed to add order item", "error", err, "order_id", orderID)
		return nil, err
	}

	s.logger.Info("order item added",
		"order_number", o.OrderNumber,
		"item_type", item.ItemType,
		"total_price", item.TotalPrice,
		"order_total", o.TotalCost,
		"by", actor.ID)

	return item, nil
}

// DeleteOrder removes an order and its items. Finalized (paid) orders are
// part of the financial record and cannot be deleted.
func (s *Service) DeleteOrder(ctx context.Context, id int64, actor *auth.User) error {
	o, err := s.repo.GetByID(id)
	if err != nil {
		return ErrOrderNotFound
	}

	if o.Status == StatusPaid {
		s.logger.Warn("delete rejected: order finalized", "order_number", o.OrderNumber)
		return ErrOrderFinalized
	}

	_ = s.recorder.Record(audit.NewEntry(
		audit.ActionDelete, &o.OrderNumber, actor.ID, actor.Name,
		fmt.Sprintf("OS %s removida - %s", o.OrderNumber, o.CustomerName),
	))

	if err := s.repo.Delete(o); err != nil {
		s.logger.Error("failed to delete order", "error", err, "order_id", id)
		return err
	}

	_ = s.bus.Publish(ctx, events.NewOrderDeletedEvent(o.ID, o.OrderNumber, o.CustomerName))

	s.logger.Info("order deleted", "order_number", o.OrderNumber, "by", actor.ID)
	return nil
}

func (s *Service) ListOrders(filters ListFilters) ([]*ServiceOrder, error) {
	if filters.Status != "" && !filters.Status.Valid() {
		return nil, internal.NewValidationError("invalid status value", internal.ErrCodeInvalidStatus)
	}
	if filters.Limit <= 0 {
		filters.Limit = DefaultPageSize
	}
	if filters.Limit > MaxPageSize {
		filters.Limit = MaxPageSize
	}
	if filters.Offset < 0 {
		filters.Offset = 0
	}
	filters.Plate = strings.ToUpper(filters.Plate)

	orders, err := s.repo.List(filters)
	if err != nil {
		s.logger.Error("failed to list orders", "error", err)
		return nil, err
	}
	return orders, nil
}

// GetOrderDetail composes an order with its items and assigned mechanic.
func (s *Service) GetOrderDetail(id int64) (*OrderDetail, error) {
	o, err := s.repo.GetByID(id)
	if err != nil {
		return nil, ErrOrderNotFound
	}

	items, err := s.repo.ItemsForOrder(id)
	if err != nil {
		s.logger.Error("failed to load order items", "error", err, "order_id", id)
		return nil, err
	}

	detail := &OrderDetail{
		ServiceOrder: *o,
		Items:        items,
	}

	if o.AssignedMechanicID != nil {
		mechanic, err := s.mechanics.GetByID(*o.AssignedMechanicID)
		if err != nil {
			s.logger.Warn("assigned mechanic not resolvable", "order_id", id, "mechanic_id", *o.AssignedMechanicID, "error", err)
		} else {
			detail.AssignedMechanic = mechanic
		}
	}

	return detail, nil
}

// OrderStats aggregates total count, per-status counts (zero-filled) and
// the revenue accumulated over paid orders.
func (s *Service) OrderStats() (*Stats, error) {
	total, err := s.repo.Count()
	if err != nil {
		s.logger.Error("failed to count orders", "error", err)
		return nil, err
	}

	byStatus := make(map[OSStatus]int64, len(AllStatuses()))
	for _, status := range AllStatuses() {
		count, err := s.repo.CountByStatus(status)
		if err != nil {
			return nil, err
		}
		byStatus[status] = count
	}

	revenue, err := s.repo.SumTotalCostByStatus(StatusPaid)
	if err != nil {
		return nil, err
	}

	return &Stats{
		Total:        total,
		ByStatus:     byStatus,
		TotalRevenue: revenue,
	}, nil
}
