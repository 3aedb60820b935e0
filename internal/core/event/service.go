package event

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

func (service *Service) List(context context.Context, filter Filter, limit, offset int) ([]*Event, int, error) {
	return service.repo.List(context, filter, limit, offset)
}

func (service *Service) Get(context context.Context, id string) (*Event, error) {
	return service.repo.Get(context, id)
}

func (service *Service) Create(context context.Context, ownerID string, ownerRole sec.UserRole, event *Event) error {
	if !ownerRole.IsSeller() {
		return apperr.Forbidden("Only artist or gallery accounts can publish events")
	}

	if err := service.validate(event); err != nil {
		return err
	}

	event.ID = uuid.New()
	event.OwnerID = ownerID

	if err := service.repo.Create(context, event); err != nil {
		return err
	}

	service.logger.Info("event_created",
		slog.String("event_id", event.ID),
		slog.String("owner_id", ownerID),
	)
	return nil
}

func (service *Service) Update(context context.Context, actorID string, actorRole sec.UserRole, id string, input *Event) (*Event, error) {
	existing, err := service.repo.Get(context, id)
	if err != nil {
		return nil, err
	}

	if err := authorizeOwner(existing.OwnerID, actorID, actorRole); err != nil {
		return nil, err
	}

	if err := service.validate(input); err != nil {
		return nil, err
	}

	existing.Title = input.Title
	existing.TitleAr = input.TitleAr
	existing.Description = input.Description
	existing.DescriptionAr = input.DescriptionAr
	existing.Venue = input.Venue
	existing.City = input.City
	existing.StartsAt = input.StartsAt
	existing.EndsAt = input.EndsAt
	existing.ImageURL = input.ImageURL

	if err := service.repo.Update(context, existing); err != nil {
		return nil, err
	}

	service.logger.Info("event_updated", slog.String("event_id", existing.ID))
	return existing, nil
}

func (service *Service) Delete(context context.Context, actorID string, actorRole sec.UserRole, id string) error {
	existing, err := service.repo.Get(context, id)
	if err != nil {
		return err
	}

	if err := authorizeOwner(existing.OwnerID, actorID, actorRole); err != nil {
		return err
	}

	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.logger.Warn("event_deleted", slog.String("event_id", id))
	return nil
}

func (service *Service) validate(event *Event) error {
	validator := &validate.Validator{}
	validator.Required(FieldTitle, event.Title).MaxLen(FieldTitle, event.Title, 300)
	validator.MaxLen(FieldTitleAr, event.TitleAr, 300)
	validator.Custom(FieldEndsAt, !event.EndsAt.After(event.StartsAt), "End time must be after start time")

	if event.ImageURL != nil {
		validator.URL(FieldImageURL, *event.ImageURL)
	}

	return validator.Err()
}

func authorizeOwner(ownerID, actorID string, actorRole sec.UserRole) error {
	if ownerID == actorID || actorRole.AtLeast(sec.RoleModerator) {
		return nil
	}
	return apperr.Forbidden("You do not own this resource")
}
