package artist

import "context"

type Repository interface {
	List(context context.Context, f Filter, limit, offset int) ([]*Artist, int, error)
	Get(context context.Context, id string) (*Artist, error)
	GetBySlug(context context.Context, slug string) (*Artist, error)
	Create(context context.Context, a *Artist) error
	Update(context context.Context, a *Artist) error
	Delete(context context.Context, id string) error
}
