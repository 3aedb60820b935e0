// Package event manages exhibitions, openings, and other gallery programming.
package event

import "time"

type Event struct {
	ID            string     `json:"id"`
	OwnerID       string     `json:"owner_id"`
	Title         string     `json:"title"`
	TitleAr       string     `json:"title_ar"`
	Description   *string    `json:"description,omitempty"`
	DescriptionAr *string    `json:"description_ar,omitempty"`
	Venue         string     `json:"venue,omitempty"`
	City          string     `json:"city,omitempty"`
	StartsAt      time.Time  `json:"starts_at"`
	EndsAt        time.Time  `json:"ends_at"`
	ImageURL      *string    `json:"image_url,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	DeletedAt     *time.Time `json:"-"`
}

// Filter holds the parameters for a paginated event search.
type Filter struct {
	Query    string // ILIKE search against title and title_ar
	City     string
	Upcoming bool // only events that have not ended yet
}

const (
	FieldTitle    = "title"
	FieldTitleAr  = "title_ar"
	FieldStartsAt = "starts_at"
	FieldEndsAt   = "ends_at"
	FieldImageURL = "image_url"
)
