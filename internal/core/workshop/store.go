package workshop

import "context"

type Repository interface {
	List(context context.Context, f Filter, limit, offset int) ([]*Workshop, int, error)
	Get(context context.Context, id string) (*Workshop, error)
	Create(context context.Context, w *Workshop) error
	Update(context context.Context, w *Workshop) error
	Delete(context context.Context, id string) error

	// Register claims a seat under the workshop row lock so capacity is
	// never oversubscribed by concurrent registrations. Returns [ErrFull]
	// when no seats remain and a conflict when the user already holds one.
	Register(context context.Context, workshopID, userID string) (*Registration, error)
}
