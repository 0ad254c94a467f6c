package products

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a sellable item. Stock is only ever mutated through the
// inventory engine; purchasePrice tracks the latest purchase.
type Product struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	CategoryID    int64           `json:"categoryId"`
	CategoryName  string          `json:"categoryName,omitempty"`
	Stock         int             `json:"stock"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	SellingPrice  decimal.Decimal `json:"sellingPrice"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// ProductForm is the create/update payload. Stock is the opening
// balance on create and is ignored on update.
type ProductForm struct {
	Name          string          `json:"name" validate:"required"`
	CategoryID    int64           `json:"categoryId" validate:"required,gt=0"`
	Stock         int             `json:"stock" validate:"gte=0"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	SellingPrice  decimal.Decimal `json:"sellingPrice"`
}
