package artist

import (
	"context"
	"log/slog"

	"github.com/lawhahq/lawha/internal/platform/apperr"
	"github.com/lawhahq/lawha/internal/platform/sec"
	"github.com/lawhahq/lawha/internal/platform/validate"
	"github.com/lawhahq/lawha/pkg/slug"
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

func (service *Service) List(context context.Context, filter Filter, limit, offset int) ([]*Artist, int, error) {
	return service.repo.List(context, filter, limit, offset)
}

// Get resolves an artist by UUID or by slug.
func (service *Service) Get(context context.Context, idOrSlug string) (*Artist, error) {
	v := &validate.Validator{}
	if v.UUID("id", idOrSlug); !v.HasErrors() {
		return service.repo.Get(context, idOrSlug)
	}
	return service.repo.GetBySlug(context, idOrSlug)
}

func (service *Service) Create(context context.Context, ownerID string, ownerRole sec.UserRole, artist *Artist) error {
	if !ownerRole.IsSeller() {
		return apperr.Forbidden("Only artist or gallery accounts can create artist profiles")
	}

	if err := service.validate(artist); err != nil {
		return err
	}

	artist.ID = uuid.New()
	artist.OwnerID = ownerID
	artist.Slug = slug.From(artist.Name)

	if err := service.repo.Create(context, artist); err != nil {
		return err
	}

	service.logger.Info("artist_created",
		slog.String("artist_id", artist.ID),
		slog.String("owner_id", ownerID),
	)
	return nil
}

func (service *Service) Update(context context.Context, actorID string, actorRole sec.UserRole, id string, input *Artist) (*Artist, error) {
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

	existing.Name = input.Name
	existing.NameAr = input.NameAr
	existing.Bio = input.Bio
	existing.BioAr = input.BioAr
	existing.ImageURL = input.ImageURL
	existing.Nationality = input.Nationality
	existing.GalleryID = input.GalleryID

	if err := service.repo.Update(context, existing); err != nil {
		return nil, err
	}

	service.logger.Info("artist_updated", slog.String("artist_id", existing.ID))
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

	service.logger.Warn("artist_deleted", slog.String("artist_id", id))
	return nil
}

func (service *Service) validate(artist *Artist) error {
	validator := &validate.Validator{}
	validator.Required(FieldName, artist.Name).MaxLen(FieldName, artist.Name, 200)
	validator.MaxLen(FieldNameAr, artist.NameAr, 200)

	if artist.ImageURL != nil {
		validator.URL(FieldImageURL, *artist.ImageURL)
	}

	return validator.Err()
}

// authorizeOwner allows the resource owner and moderators upward.
func authorizeOwner(ownerID, actorID string, actorRole sec.UserRole) error {
	if ownerID == actorID || actorRole.AtLeast(sec.RoleModerator) {
		return nil
	}
	return apperr.Forbidden("You do not own this resource")
}
