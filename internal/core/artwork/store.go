package artwork

import "context"

type Repository interface {
	List(context context.Context, f Filter, limit, offset int) ([]*Artwork, int, error)
	Get(context context.Context, id string) (*Artwork, error)
	GetBySlug(context context.Context, slug string) (*Artwork, error)
	Create(context context.Context, a *Artwork) error
	Update(context context.Context, a *Artwork) error
	SetStatus(context context.Context, id string, status Status) error
	Delete(context context.Context, id string) error
}
