package artist

import "time"

// Artist is a visual creator whose artworks are listed on the marketplace.
// An artist profile is owned either by the artist's own user account or by
// the gallery that represents them.
type Artist struct {
	ID            string     `json:"id"`
	OwnerID       string     `json:"owner_id"`
	GalleryID     *string    `json:"gallery_id,omitempty"`
	Name          string     `json:"name"`
	NameAr        string     `json:"name_ar"`
	Slug          string     `json:"slug"`
	Bio           *string    `json:"bio,omitempty"`
	BioAr         *string    `json:"bio_ar,omitempty"`
	ImageURL      *string    `json:"image_url,omitempty"`
	Nationality   string     `json:"nationality,omitempty"`
	ArtworkCount  int        `json:"artwork_count"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	DeletedAt     *time.Time `json:"-"` // soft-delete tracker
}

// Filter holds the parameters for a paginated artist search.
type Filter struct {
	Query     string // ILIKE search against name and name_ar
	GalleryID string
}

const (
	FieldName     = "name"
	FieldNameAr   = "name_ar"
	FieldBio      = "bio"
	FieldImageURL = "image_url"
)
