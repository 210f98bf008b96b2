package inventory

import "errors"

type CreateItemDTO struct {
	Code          string  `json:"code"`
	Name          string  `json:"name"`
	Description   *string `json:"description,omitempty"`
	Manufacturer  *string `json:"manufacturer,omitempty"`
	Category      string  `json:"category"`
	CostPrice     float64 `json:"cost_price"`
	SellPrice     float64 `json:"sell_price"`
	StockQuantity int     `json:"stock_quantity,omitempty"`
	MinStockLevel int     `json:"min_stock_level,omitempty"`
}

func (dto CreateItemDTO) Validate() error {
	if dto.Code == "" {
		return errors.New("code is required")
	}
	if dto.Name == "" {
		return errors.New("name is required")
	}
	if dto.Category == "" {
		return errors.New("category is required")
	}
	if dto.CostPrice < 0 {
		return errors.New("cost_price cannot be negative")
	}
	if dto.SellPrice < 0 {
		return errors.New("sell_price cannot be negative")
	}
	if dto.StockQuantity < 0 {
		return errors.New("stock_quantity cannot be negative")
	}
	if dto.MinStockLevel < 0 {
		return errors.New("min_stock_level cannot be negative")
	}
	return nil
}

// UpdateItemDTO carries partial updates: nil fields stay untouched.
type UpdateItemDTO struct {
	Name          *string  `json:"name,omitempty"`
	Description   *string  `json:"description,omitempty"`
	Manufacturer  *string  `json:"manufacturer,omitempty"`
	Category      *string  `json:"category,omitempty"`
	CostPrice     *float64 `json:"cost_price,omitempty"`
	SellPrice     *float64 `json:"sell_price,omitempty"`
	StockQuantity *int     `json:"stock_quantity,omitempty"`
	MinStockLevel *int     `json:"min_stock_level,omitempty"`
}

func (dto UpdateItemDTO) Validate() error {
	if dto.Name != nil && *dto.Name == "" {
		return errors.New("name cannot be empty")
	}
	if dto.Category != nil && *dto.Category == "" {
		return errors.New("category cannot be empty")
	}
	if dto.CostPrice != nil && *dto.CostPrice < 0 {
		return errors.New("cost_price cannot be negative")
	}
	if dto.SellPrice != nil && *dto.SellPrice < 0 {
		return errors.New("sell_price cannot be negative")
	}
	if dto.StockQuantity != nil && *dto.StockQuantity < 0 {
		return errors.New("stock_quantity cannot be negative")
	}
	if dto.MinStockLevel != nil && *dto.MinStockLevel < 0 {
		return errors.New("min_stock_level cannot be negative")
	}
	return nil
}

type AdjustStockDTO struct {
	Quantity  int            `json:"quantity"`
	Operation StockOperation `json:"operation"`
}

func (dto AdjustStockDTO) Validate() error {
	if dto.Quantity < 0 {
		return errors.New("quantity cannot be negative")
	}
	if dto.Operation != StockAdd && dto.Operation != StockRemove {
		return errors.New("operation must be add or remove")
	}
	return nil
}

type AdjustStockResponse struct {
	NewQuantity int    `json:"new_quantity"`
	Message     string `json:"message"`
}

// ListFilters narrows inventory listings. Zero values mean "no filter".
type ListFilters struct {
	Category string
	LowStock bool
	Search   string
}
