package invoice

import "context"

type Repository interface {
	List(context context.Context, f Filter, limit, offset int) ([]*Invoice, int, error)
	Get(context context.Context, id string) (*Invoice, error)
	Create(context context.Context, inv *Invoice) error
	// Update replaces the invoice head and its line items atomically.
	Update(context context.Context, inv *Invoice) error
	// Issue assigns the next invoice number and stamps the QR payload.
	Issue(context context.Context, inv *Invoice) error
	SetStatus(context context.Context, id string, status Status) error
	Delete(context context.Context, id string) error
}
