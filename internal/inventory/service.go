package inventory

import (
	"log/slog"
	"time"

	"github.com/osmech/workshop-management/internal"
	"github.com/osmech/workshop-management/internal/auth"
)

type Repository interface {
	Create(item *Item) error
	GetByID(id int64) (*Item, error)
	GetByCode(code string) (*Item, error)
	List(filters ListFilters) ([]*Item, error)
	ListLowStock() ([]*Item, error)
	Categories() ([]string, error)
	Update(item *Item) error
	Delete(item *Item) error
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) ListItems(filters ListFilters) ([]*Item, error) {
	items, err := s.repo.List(filters)
	if err != nil {
		s.logger.Error("failed to list inventory", "error", err)
		return nil, err
	}
	return items, nil
}

func (s *Service) ListLowStock() ([]*Item, error) {
	items, err := s.repo.ListLowStock()
	if err != nil {
		s.logger.Error("failed to list low-stock items", "error", err)
		return nil, err
	}
	return items, nil
}

func (s *Service) ListCategories() ([]string, error) {
	categories, err := s.repo.Categories()
	if err != nil {
		s.logger.Error("failed to list categories", "error", err)
		return nil, err
	}
	return categories, nil
}

func (s *Service) GetByID(id int64) (*Item, error) {
	return s.repo.GetByID(id)
}

func (s *Service) CreateItem(dto CreateItemDTO, actor *auth.User) (*Item, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	if existing, err := s.repo.GetByCode(dto.Code); err == nil && existing != nil {
		return nil, ErrCodeTaken
	}

	item := &Item{
		Code:          dto.Code,
		Name:          dto.Name,
		Description:   dto.Description,
		Manufacturer:  dto.Manufacturer,
		Category:      dto.Category,
		CostPrice:     dto.CostPrice,
		SellPrice:     dto.SellPrice,
		StockQuantity: dto.StockQuantity,
		MinStockLevel: dto.MinStockLevel,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.repo.Create(item); err != nil {
		s.logger.Error("failed to create inventory item", "error", err, "code", dto.Code)
		return nil, err
	}

	s.logger.Info("inventory item created", "item_id", item.ID, "code", item.Code, "by", actor.ID)
	return item, nil
}

func (s *Service) UpdateItem(id int64, dto UpdateItemDTO, actor *auth.User) (*Item, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	item, err := s.repo.GetByID(id)
	if err != nil {
		return nil, ErrItemNotFound
	}

	if dto.Name != nil {
		item.Name = *dto.Name
	}
	if dto.Description != nil {
		item.Description = dto.Description
	}
	if dto.Manufacturer != nil {
		item.Manufacturer = dto.Manufacturer
	}
	if dto.Category != nil {
		item.Category = *dto.Category
	}
	if dto.CostPrice != nil {
		item.CostPrice = *dto.CostPrice
	}
	if dto.SellPrice != nil {
		item.SellPrice = *dto.SellPrice
	}
	if dto.StockQuantity != nil {
		item.StockQuantity = *dto.StockQuantity
	}
	if dto.MinStockLevel != nil {
		item.MinStockLevel = *dto.MinStockLevel
	}

	if err := s.repo.Update(item); err != nil {
		s.logger.Error("failed to update inventory item", "error", err, "item_id", id)
		return nil, err
	}

	s.logger.Info("inventory item updated", "item_id", id, "by", actor.ID)
	return item, nil
}

// AdjustStock adds to or removes from an item's stock. Removing more than
// is on hand is rejected, so the quantity never goes negative here.
func (s *Service) AdjustStock(id int64, dto AdjustStockDTO, actor *auth.User) (*Item, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	item, err := s.repo.GetByID(id)
	if err != nil {
		return nil, ErrItemNotFound
	}

	switch dto.Operation {
	case StockAdd:
		item.StockQuantity += dto.Quantity
	case StockRemove:
		if item.StockQuantity < dto.Quantity {
			s.logger.Warn("stock adjustment rejected",
				"item_id", id,
				"on_hand", item.StockQuantity,
				"requested", dto.Quantity)
			return nil, ErrInsufficientStock
		}
		item.StockQuantity -= dto.Quantity
	}

	if err := s.repo.Update(item); err != nil {
		s.logger.Error("failed to adjust stock", "error", err, "item_id", id)
		return nil, err
	}

	s.logger.Info("stock adjusted",
		"item_id", id,
		"operation", dto.Operation,
		"quantity", dto.Quantity,
		"new_quantity", item.StockQuantity,
		"by", actor.ID)

	return item, nil
}

func (s *Service) DeleteItem(id int64, actor *auth.User) error {
	item, err := s.repo.GetByID(id)
	if err != nil {
		return ErrItemNotFound
	}

	if err := s.repo.Delete(item); err != nil {
		s.logger.Error("failed to delete inventory item", "error", err, "item_id", id)
		return err
	}

	s.logger.Info("inventory item deleted", "item_id", id, "code", item.Code, "by", actor.ID)
	return nil
}
