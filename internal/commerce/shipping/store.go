package shipping

import "context"

type Repository interface {
	GetProfile(context context.Context, sellerID string) (*Profile, error)
	// UpsertProfile creates the seller's profile on first write.
	UpsertProfile(context context.Context, p *Profile) error

	ListTracking(context context.Context, orderID string) ([]*TrackingEvent, error)
	AppendTracking(context context.Context, e *TrackingEvent) error
}
