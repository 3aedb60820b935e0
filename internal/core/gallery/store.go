package gallery

import "context"

type Repository interface {
	List(context context.Context, f Filter, limit, offset int) ([]*Gallery, int, error)
	Get(context context.Context, id string) (*Gallery, error)
	GetBySlug(context context.Context, slug string) (*Gallery, error)
	GetByOwner(context context.Context, ownerID string) (*Gallery, error)
	Create(context context.Context, g *Gallery) error
	Update(context context.Context, g *Gallery) error
	Delete(context context.Context, id string) error
}
