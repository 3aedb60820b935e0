package invoice

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
TestQRPayload_KnownInvoices checks byte-exact TLV output for fixed inputs.
*/
func TestQRPayload_KnownInvoices(t *testing.T) {
	tests := []struct {
		name       string
		sellerName string
		vatNumber  string
		issuedAt   time.Time
		total      decimal.Decimal
		vat        decimal.Decimal
		want       string
	}{
		{
			name:       "marketplace_invoice",
			sellerName: "Lawha Art Marketplace",
			vatNumber:  "300000000000003",
			issuedAt:   time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC),
			total:      decimal.NewFromInt(115),
			vat:        decimal.NewFromInt(15),
			want:       "ARVMYXdoYSBBcnQgTWFya2V0cGxhY2UCDzMwMDAwMDAwMDAwMDAwMwMUMjAyNi0wMy0wMVQxMjowMDowMFoEBjExNS4wMAUFMTUuMDA=",
		},
		{
			name:       "gallery_invoice",
			sellerName: "Noor Gallery",
			vatNumber:  "310122393500003",
			issuedAt:   time.Date(2026, time.August, 15, 9, 30, 0, 0, time.UTC),
			total:      decimal.NewFromInt(5750),
			vat:        decimal.NewFromInt(750),
			want:       "AQxOb29yIEdhbGxlcnkCDzMxMDEyMjM5MzUwMDAwMwMUMjAyNi0wOC0xNVQwOTozMDowMFoEBzU3NTAuMDAFBjc1MC4wMA==",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, QRPayload(tt.sellerName, tt.vatNumber, tt.issuedAt, tt.total, tt.vat))
		})
	}
}

/*
TestQRPayload_TLVStructure decodes the payload and walks each field.
*/
func TestQRPayload_TLVStructure(t *testing.T) {
	issuedAt := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	payload := QRPayload("Lawha Art Marketplace", "300000000000003", issuedAt,
		decimal.RequireFromString("115.00"), decimal.RequireFromString("15.00"))

	raw, err := base64.StdEncoding.DecodeString(payload)
	require.NoError(t, err)

	want := map[byte]string{
		1: "Lawha Art Marketplace",
		2: "300000000000003",
		3: "2026-03-01T12:00:00Z",
		4: "115.00",
		5: "15.00",
	}

	got := map[byte]string{}
	for i := 0; i < len(raw); {
		tag := raw[i]
		length := int(raw[i+1])
		got[tag] = string(raw[i+2 : i+2+length])
		i += 2 + length
	}

	assert.Equal(t, want, got)
}

/*
TestQRPayload_LongSellerName verifies that a seller name longer than a
single TLV length byte can describe is truncated on a rune boundary, so
every length byte still matches the bytes that follow it and the payload
stays decodable.
*/
func TestQRPayload_LongSellerName(t *testing.T) {
	sellerName := strings.Repeat("غاليري", 60) // 720 bytes of two-byte runes
	issuedAt := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

	payload := QRPayload(sellerName, "300000000000003", issuedAt,
		decimal.RequireFromString("115.00"), decimal.RequireFromString("15.00"))

	raw, err := base64.StdEncoding.DecodeString(payload)
	require.NoError(t, err)

	got := map[byte]string{}
	for i := 0; i < len(raw); {
		require.Less(t, i+1, len(raw), "field header runs past the payload")
		tag := raw[i]
		length := int(raw[i+1])
		require.LessOrEqual(t, i+2+length, len(raw), "field value runs past the payload")
		got[tag] = string(raw[i+2 : i+2+length])
		i += 2 + length
	}

	require.Len(t, got, 5)
	assert.True(t, utf8.ValidString(got[1]), "truncation must not split a rune")
	assert.LessOrEqual(t, len(got[1]), 255)
	assert.True(t, strings.HasPrefix(sellerName, got[1]))
	assert.Equal(t, "300000000000003", got[2])
	assert.Equal(t, "115.00", got[4])
}

/*
TestInvoice_Totalize covers the VAT rounding rule, half-up to two places.
*/
func TestInvoice_Totalize(t *testing.T) {
	tests := []struct {
		name      string
		items     []LineItem
		subtotal  string
		vatAmount string
		total     string
	}{
		{
			name:      "single_item",
			items:     []LineItem{{Quantity: 1, UnitPrice: decimal.NewFromInt(100)}},
			subtotal:  "100.00",
			vatAmount: "15.00",
			total:     "115.00",
		},
		{
			name: "multiple_quantities",
			items: []LineItem{
				{Quantity: 2, UnitPrice: decimal.RequireFromString("249.50")},
				{Quantity: 1, UnitPrice: decimal.NewFromInt(1)},
			},
			subtotal:  "500.00",
			vatAmount: "75.00",
			total:     "575.00",
		},
		{
			name:      "rounds_half_up",
			items:     []LineItem{{Quantity: 1, UnitPrice: decimal.RequireFromString("0.10")}},
			subtotal:  "0.10",
			vatAmount: "0.02", // 0.015 rounds up
			total:     "0.12",
		},
		{
			name:      "rounds_down_below_half",
			items:     []LineItem{{Quantity: 1, UnitPrice: decimal.RequireFromString("0.09")}},
			subtotal:  "0.09",
			vatAmount: "0.01", // 0.0135 rounds down
			total:     "0.10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := &Invoice{Items: tt.items}
			inv.Totalize()

			assert.Equal(t, tt.subtotal, inv.Subtotal.StringFixed(2))
			assert.Equal(t, tt.vatAmount, inv.VATAmount.StringFixed(2))
			assert.Equal(t, tt.total, inv.Total.StringFixed(2))
		})
	}
}

/*
TestStatus_CanTransition pins the invoice lifecycle graph.
*/
func TestStatus_CanTransition(t *testing.T) {
	tests := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusDraft, StatusIssued, true},
		{StatusDraft, StatusCancelled, true},
		{StatusDraft, StatusPaid, false},
		{StatusIssued, StatusPaid, true},
		{StatusIssued, StatusCancelled, true},
		{StatusIssued, StatusDraft, false},
		{StatusPaid, StatusCancelled, false},
		{StatusCancelled, StatusIssued, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransition(tt.to))
		})
	}
}
