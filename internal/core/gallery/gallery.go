package gallery

import "time"

// Gallery is a curated art space with a roster of represented artists.
type Gallery struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"owner_id"`
	Name        string     `json:"name"`
	NameAr      string     `json:"name_ar"`
	Slug        string     `json:"slug"`
	Bio         *string    `json:"bio,omitempty"`
	BioAr       *string    `json:"bio_ar,omitempty"`
	City        string     `json:"city,omitempty"`
	LogoURL     *string    `json:"logo_url,omitempty"`
	Website     *string    `json:"website,omitempty"`
	ArtistCount int        `json:"artist_count"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"-"`
}

// Filter holds the parameters for a paginated gallery search.
type Filter struct {
	Query string // ILIKE search against name, name_ar, and city
	City  string
}

const (
	FieldName    = "name"
	FieldNameAr  = "name_ar"
	FieldLogoURL = "logo_url"
	FieldWebsite = "website"
)
