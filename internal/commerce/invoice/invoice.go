// Package invoice implements seller billing with ZATCA phase-1 compliance:
// VAT totals computed in exact decimal arithmetic and a TLV QR payload on
// every issued invoice.
package invoice

import (
	"time"

	"github.com/shopspring/decimal"
)

// VATRate is the KSA standard rate applied to every taxable line.
var VATRate = decimal.NewFromFloat(0.15)

// Status is the billing state. Draft invoices are fully editable; once
// issued only the status may change, and only forward to paid or cancelled.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusIssued    Status = "issued"
	StatusPaid      Status = "paid"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusIssued, StatusPaid, StatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether the status may move to next.
func (s Status) CanTransition(next Status) bool {
	switch s {
	case StatusDraft:
		return next == StatusIssued || next == StatusCancelled
	case StatusIssued:
		return next == StatusPaid || next == StatusCancelled
	}
	return false
}

type LineItem struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

type Invoice struct {
	ID        string          `json:"id"`
	Number    string          `json:"number,omitempty"` // assigned at issue
	SellerID  string          `json:"seller_id"`
	BuyerID   *string         `json:"buyer_id,omitempty"`
	AuctionID *string         `json:"auction_id,omitempty"`
	Status    Status          `json:"status"`
	Items     []LineItem      `json:"items"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	VATAmount decimal.Decimal `json:"vat_amount"`
	Total     decimal.Decimal `json:"total"`
	Currency  string          `json:"currency"`
	QR        string          `json:"qr,omitempty"` // base64 TLV, set at issue
	IssuedAt  *time.Time      `json:"issued_at,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Totalize recomputes line amounts and the invoice totals. VAT is rounded
// half-up to two decimal places.
func (inv *Invoice) Totalize() {
	subtotal := decimal.Zero
	for i := range inv.Items {
		amount := inv.Items[i].UnitPrice.Mul(decimal.NewFromInt(inv.Items[i].Quantity)).Round(2)
		inv.Items[i].Amount = amount
		subtotal = subtotal.Add(amount)
	}

	inv.Subtotal = subtotal.Round(2)
	inv.VATAmount = subtotal.Mul(VATRate).Round(2)
	inv.Total = inv.Subtotal.Add(inv.VATAmount)
}

// Filter holds the parameters for a paginated invoice search.
type Filter struct {
	SellerID string
	Status   Status
}

const (
	FieldStatus      = "status"
	FieldItems       = "items"
	FieldDescription = "description"
	FieldQuantity    = "quantity"
	FieldUnitPrice   = "unit_price"
)
