package workshop

import (
	"context"
	"log/slog"

	"github.com/lawhahq/lawha/internal/platform/apperr"
	"github.com/lawhahq/lawha/internal/platform/constants"
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

func (service *Service) List(context context.Context, filter Filter, limit, offset int) ([]*Workshop, int, error) {
	return service.repo.List(context, filter, limit, offset)
}

func (service *Service) Get(context context.Context, id string) (*Workshop, error) {
	return service.repo.Get(context, id)
}

func (service *Service) Create(context context.Context, ownerID string, ownerRole sec.UserRole, workshop *Workshop) error {
	if !ownerRole.IsSeller() {
		return apperr.Forbidden("Only artist or gallery accounts can publish workshops")
	}

	if workshop.Currency == "" {
		workshop.Currency = constants.DefaultCurrency
	}

	if err := service.validate(workshop); err != nil {
		return err
	}

	workshop.ID = uuid.New()
	workshop.OwnerID = ownerID

	if err := service.repo.Create(context, workshop); err != nil {
		return err
	}

	service.logger.Info("workshop_created",
		slog.String("workshop_id", workshop.ID),
		slog.String("owner_id", ownerID),
	)
	return nil
}

func (service *Service) Update(context context.Context, actorID string, actorRole sec.UserRole, id string, input *Workshop) (*Workshop, error) {
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

	// Capacity can grow but never drop below the seats already claimed.
	if input.Capacity < existing.RegisteredCount {
		return nil, apperr.Conflict("Capacity cannot be reduced below current registrations")
	}

	existing.Title = input.Title
	existing.TitleAr = input.TitleAr
	existing.Description = input.Description
	existing.DescriptionAr = input.DescriptionAr
	existing.Venue = input.Venue
	existing.City = input.City
	existing.Capacity = input.Capacity
	existing.Price = input.Price
	existing.StartsAt = input.StartsAt
	existing.EndsAt = input.EndsAt
	existing.ImageURL = input.ImageURL

	if err := service.repo.Update(context, existing); err != nil {
		return nil, err
	}

	service.logger.Info("workshop_updated", slog.String("workshop_id", existing.ID))
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

	service.logger.Warn("workshop_deleted", slog.String("workshop_id", id))
	return nil
}

// Register claims a seat for the caller. Owners cannot register for their
// own workshops.
func (service *Service) Register(context context.Context, workshopID, userID string) (*Registration, error) {
	existing, err := service.repo.Get(context, workshopID)
	if err != nil {
		return nil, err
	}

	if existing.OwnerID == userID {
		return nil, apperr.Conflict("You cannot register for your own workshop")
	}

	registration, err := service.repo.Register(context, workshopID, userID)
	if err != nil {
		return nil, err
	}

	service.logger.Info("workshop_registration",
		slog.String("workshop_id", workshopID),
		slog.String("user_id", userID),
	)
	return registration, nil
}

func (service *Service) validate(workshop *Workshop) error {
	validator := &validate.Validator{}
	validator.Required(FieldTitle, workshop.Title).MaxLen(FieldTitle, workshop.Title, 300)
	validator.MaxLen(FieldTitleAr, workshop.TitleAr, 300)
	validator.Custom(FieldCapacity, workshop.Capacity <= 0, "Capacity must be a positive integer")
	validator.Custom(FieldEndsAt, !workshop.EndsAt.After(workshop.StartsAt), "End time must be after start time")

	if workshop.ImageURL != nil {
		validator.URL(FieldImageURL, *workshop.ImageURL)
	}

	return validator.Err()
}

func authorizeOwner(ownerID, actorID string, actorRole sec.UserRole) error {
	if ownerID == actorID || actorRole.AtLeast(sec.RoleModerator) {
		return nil
	}
	return apperr.Forbidden("You do not own this resource")
}
