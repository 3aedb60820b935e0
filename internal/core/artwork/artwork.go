package artwork

import "time"

// Status tracks where an artwork sits in its sale lifecycle.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusListed    Status = "listed"
	StatusInAuction Status = "in_auction"
	StatusSold      Status = "sold"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusListed, StatusInAuction, StatusSold:
		return true
	}
	return false
}

// Artwork is a single listed piece. Price is stored in halalas (1 SAR = 100)
// so money arithmetic stays integral end to end.
type Artwork struct {
	ID            string     `json:"id"`
	ArtistID      string     `json:"artist_id"`
	OwnerID       string     `json:"owner_id"`
	Title         string     `json:"title"`
	TitleAr       string     `json:"title_ar"`
	Slug          string     `json:"slug"`
	Description   *string    `json:"description,omitempty"`
	DescriptionAr *string    `json:"description_ar,omitempty"`
	Medium        string     `json:"medium,omitempty"`
	Year          int        `json:"year,omitempty"`
	WidthCM       float64    `json:"width_cm,omitempty"`
	HeightCM      float64    `json:"height_cm,omitempty"`
	Price         int64      `json:"price"`
	Currency      string     `json:"currency"`
	Status        Status     `json:"status"`
	ImageURL      *string    `json:"image_url,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	DeletedAt     *time.Time `json:"-"`
}

// Filter holds the parameters for a paginated artwork search.
type Filter struct {
	Query    string // ILIKE search against title and title_ar
	ArtistID string
	Status   Status
}

const (
	FieldTitle    = "title"
	FieldTitleAr  = "title_ar"
	FieldArtistID = "artist_id"
	FieldPrice    = "price"
	FieldStatus   = "status"
	FieldImageURL = "image_url"
)
