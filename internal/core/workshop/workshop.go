// Package workshop manages hands-on sessions with limited seating.
package workshop

import (
	"time"

	"github.com/lawhahq/lawha/internal/platform/apperr"
)

// ErrFull is returned when a registration would exceed capacity.
var ErrFull = apperr.Conflict("Workshop is at capacity")

type Workshop struct {
	ID              string     `json:"id"`
	OwnerID         string     `json:"owner_id"`
	Title           string     `json:"title"`
	TitleAr         string     `json:"title_ar"`
	Description     *string    `json:"description,omitempty"`
	DescriptionAr   *string    `json:"description_ar,omitempty"`
	Venue           string     `json:"venue,omitempty"`
	City            string     `json:"city,omitempty"`
	Capacity        int        `json:"capacity"`
	RegisteredCount int        `json:"registered_count"`
	Price           int64      `json:"price"`
	Currency        string     `json:"currency"`
	StartsAt        time.Time  `json:"starts_at"`
	EndsAt          time.Time  `json:"ends_at"`
	ImageURL        *string    `json:"image_url,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	DeletedAt       *time.Time `json:"-"`
}

// Registration records one claimed seat.
type Registration struct {
	WorkshopID string    `json:"workshop_id"`
	UserID     string    `json:"user_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// Filter holds the parameters for a paginated workshop search.
type Filter struct {
	Query    string // ILIKE search against title and title_ar
	City     string
	Upcoming bool
}

const (
	FieldTitle    = "title"
	FieldTitleAr  = "title_ar"
	FieldCapacity = "capacity"
	FieldStartsAt = "starts_at"
	FieldEndsAt   = "ends_at"
	FieldImageURL = "image_url"
)
