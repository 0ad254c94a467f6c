package purchases

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase is a goods receipt from a supplier. Total is always the sum
// of its line subtotals; voided receipts are soft deleted after their
// stock effect is reversed.
type Purchase struct {
	ID           int64           `json:"id"`
	UserID       int64           `json:"userId"`
	UserName     string          `json:"userName,omitempty"`
	SupplierID   int64           `json:"supplierId"`
	SupplierName string          `json:"supplierName,omitempty"`
	Date         time.Time       `json:"date"`
	Total        decimal.Decimal `json:"total"`
	Lines        []Line          `json:"details,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

type Line struct {
	ID          int64           `json:"id"`
	PurchaseID  int64           `json:"purchaseId"`
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// LineForm carries the supplier's quoted unit price; the receipt
// snapshots it and it becomes the product's new purchase price.
type LineForm struct {
	ProductID int64           `json:"productId" validate:"required,gt=0"`
	Quantity  int             `json:"quantity" validate:"required,gt=0"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

type PurchaseForm struct {
	SupplierID int64      `json:"supplierId" validate:"required,gt=0"`
	Date       *time.Time `json:"date"`
	Lines      []LineForm `json:"details" validate:"required,min=1,dive"`
}

// Report is a date-bounded listing with a grand total across receipts.
type Report struct {
	StartDate  string          `json:"startDate"`
	EndDate    string          `json:"endDate"`
	Purchases  []Purchase      `json:"purchases"`
	GrandTotal decimal.Decimal `json:"grandTotal"`
}
