package shipping

import (
	"context"
	"log/slog"

	"github.com/lawhahq/lawha/internal/platform/apperr"
	"github.com/lawhahq/lawha/internal/platform/sec"
	"github.com/lawhahq/lawha/internal/platform/validate"
	"github.com/lawhahq/lawha/pkg/uuid"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (service *Service) GetProfile(context context.Context, sellerID string) (*Profile, error) {
	return service.repo.GetProfile(context, sellerID)
}

func (service *Service) PutProfile(context context.Context, sellerID string, sellerRole sec.UserRole, profile *Profile) error {
	if !sellerRole.IsSeller() {
		return apperr.Forbidden("Only artist or gallery accounts have shipping profiles")
	}

	validator := &validate.Validator{}
	validator.Required(FieldAddressLine, profile.AddressLine).MaxLen(FieldAddressLine, profile.AddressLine, 300)
	validator.Required(FieldCity, profile.City)
	validator.Required(FieldCountry, profile.Country)
	validator.Required(FieldCarrier, profile.Carrier)
	validator.Range(FieldHandlingDays, profile.HandlingDays, 0, 60)
	if err := validator.Err(); err != nil {
		return err
	}

	profile.SellerID = sellerID
	if err := service.repo.UpsertProfile(context, profile); err != nil {
		return err
	}

	service.logger.Info("shipping_profile_saved", slog.String("seller_id", sellerID))
	return nil
}

func (service *Service) ListTracking(context context.Context, orderID string) ([]*TrackingEvent, error) {
	validator := &validate.Validator{}
	if validator.UUID(FieldOrderID, orderID); validator.HasErrors() {
		return nil, validator.Err()
	}
	return service.repo.ListTracking(context, orderID)
}

func (service *Service) AppendTracking(context context.Context, sellerID string, sellerRole sec.UserRole, event *TrackingEvent) (*TrackingEvent, error) {
	if !sellerRole.IsSeller() {
		return nil, apperr.Forbidden("Only artist or gallery accounts can append tracking events")
	}

	validator := &validate.Validator{}
	validator.UUID(FieldOrderID, event.OrderID)
	validator.Required(FieldTrackStatus, event.Status).MaxLen(FieldTrackStatus, event.Status, 100)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	event.ID = uuid.New()
	event.SellerID = sellerID

	if err := service.repo.AppendTracking(context, event); err != nil {
		return nil, err
	}

	service.logger.Info("tracking_event_appended",
		slog.String("order_id", event.OrderID),
		slog.String("status", event.Status),
	)
	return event, nil
}
