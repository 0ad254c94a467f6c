package sales

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is a checkout transaction. Line prices are never taken from the
// client: unit price and unit cost snapshot the product's selling and
// purchase price at the moment of sale, which is what makes historical
// profit figures stable.
type Sale struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"userId"`
	UserName  string          `json:"userName,omitempty"`
	Date      time.Time       `json:"date"`
	Total     decimal.Decimal `json:"total"`
	Lines     []Line          `json:"details,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type Line struct {
	ID          int64           `json:"id"`
	SaleID      int64           `json:"saleId"`
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	UnitCost    decimal.Decimal `json:"unitCost"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// LineForm deliberately has no price fields.
type LineForm struct {
	ProductID int64 `json:"productId" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"required,gt=0"`
}

type SaleForm struct {
	Date  *time.Time `json:"date"`
	Lines []LineForm `json:"details" validate:"required,min=1,dive"`
}

// Report is a date-bounded listing with a grand total.
type Report struct {
	StartDate  string          `json:"startDate"`
	EndDate    string          `json:"endDate"`
	Sales      []Sale          `json:"sales"`
	GrandTotal decimal.Decimal `json:"grandTotal"`
}

// ProfitRow is one aggregation bucket. Margin is profit over revenue
// as a percentage, rounded to two places, zero when revenue is zero.
type ProfitRow struct {
	Date        string          `json:"date,omitempty"`
	ProductID   int64           `json:"productId,omitempty"`
	ProductName string          `json:"productName,omitempty"`
	QtySold     int             `json:"qtySold,omitempty"`
	TotalSale   decimal.Decimal `json:"totalSale"`
	TotalCost   decimal.Decimal `json:"totalCost"`
	Profit      decimal.Decimal `json:"profit"`
	Margin      decimal.Decimal `json:"margin"`
}

type ProfitReport struct {
	StartDate   string          `json:"startDate"`
	EndDate     string          `json:"endDate"`
	Rows        []ProfitRow     `json:"rows"`
	TotalSale   decimal.Decimal `json:"totalSale"`
	TotalCost   decimal.Decimal `json:"totalCost"`
	TotalProfit decimal.Decimal `json:"totalProfit"`
}
