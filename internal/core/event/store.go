package event

import "context"

type Repository interface {
	List(context context.Context, f Filter, limit, offset int) ([]*Event, int, error)
	Get(context context.Context, id string) (*Event, error)
	Create(context context.Context, e *Event) error
	Update(context context.Context, e *Event) error
	Delete(context context.Context, id string) error
}
