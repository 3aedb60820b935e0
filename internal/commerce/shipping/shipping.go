// Package shipping holds per-seller dispatch settings and order tracking
// timelines.
package shipping

import "time"

// Profile is a seller's dispatch configuration. One row per seller,
// upserted in place.
type Profile struct {
	SellerID     string    `json:"seller_id"`
	AddressLine  string    `json:"address_line"`
	City         string    `json:"city"`
	Country      string    `json:"country"`
	Carrier      string    `json:"carrier"`
	HandlingDays int       `json:"handling_days"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TrackingEvent is one checkpoint on an order's journey, appended by the
// selling party as the carrier reports progress.
type TrackingEvent struct {
	ID        string    `json:"id"`
	OrderID   string    `json:"order_id"`
	SellerID  string    `json:"-"`
	Status    string    `json:"status"`
	Location  string    `json:"location,omitempty"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	FieldAddressLine  = "address_line"
	FieldCity         = "city"
	FieldCountry      = "country"
	FieldCarrier      = "carrier"
	FieldHandlingDays = "handling_days"
	FieldOrderID      = "order_id"
	FieldTrackStatus  = "status"
)
