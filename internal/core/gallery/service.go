package gallery

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

func (service *Service) List(context context.Context, filter Filter, limit, offset int) ([]*Gallery, int, error) {
	return service.repo.List(context, filter, limit, offset)
}

// Get resolves a gallery by UUID or by slug.
func (service *Service) Get(context context.Context, idOrSlug string) (*Gallery, error) {
	v := &validate.Validator{}
	if v.UUID("id", idOrSlug); !v.HasErrors() {
		return service.repo.Get(context, idOrSlug)
	}
	return service.repo.GetBySlug(context, idOrSlug)
}

func (service *Service) Create(context context.Context, ownerID string, ownerRole sec.UserRole, gallery *Gallery) error {
	if !ownerRole.AtLeast(sec.RoleGallery) {
		return apperr.Forbidden("Only gallery accounts can create a gallery profile")
	}

	// One gallery profile per account.
	if _, err := service.repo.GetByOwner(context, ownerID); err == nil {
		return apperr.Conflict("This account already has a gallery profile")
	} else if ae := apperr.As(err); ae == nil || ae.Code != "NOT_FOUND" {
		return err
	}

	if err := service.validate(gallery); err != nil {
		return err
	}

	gallery.ID = uuid.New()
	gallery.OwnerID = ownerID
	gallery.Slug = slug.From(gallery.Name)

	if err := service.repo.Create(context, gallery); err != nil {
		return err
	}

	service.logger.Info("gallery_created",
		slog.String("gallery_id", gallery.ID),
		slog.String("owner_id", ownerID),
	)
	return nil
}

func (service *Service) Update(context context.Context, actorID string, actorRole sec.UserRole, id string, input *Gallery) (*Gallery, error) {
	existing, err := service.repo.Get(context, id)
	if err != nil {
		return nil, err
	}

	if existing.OwnerID != actorID && !actorRole.AtLeast(sec.RoleModerator) {
		return nil, apperr.Forbidden("You do not own this gallery")
	}

	if err := service.validate(input); err != nil {
		return nil, err
	}

	existing.Name = input.Name
	existing.NameAr = input.NameAr
	existing.Bio = input.Bio
	existing.BioAr = input.BioAr
	existing.City = input.City
	existing.LogoURL = input.LogoURL
	existing.Website = input.Website

	if err := service.repo.Update(context, existing); err != nil {
		return nil, err
	}

	service.logger.Info("gallery_updated", slog.String("gallery_id", existing.ID))
	return existing, nil
}

func (service *Service) Delete(context context.Context, actorID string, actorRole sec.UserRole, id string) error {
	existing, err := service.repo.Get(context, id)
	if err != nil {
		return err
	}

	if existing.OwnerID != actorID && !actorRole.AtLeast(sec.RoleAdmin) {
		return apperr.Forbidden("You do not own this gallery")
	}

	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.logger.Warn("gallery_deleted", slog.String("gallery_id", id))
	return nil
}

func (service *Service) validate(gallery *Gallery) error {
	validator := &validate.Validator{}
	validator.Required(FieldName, gallery.Name).MaxLen(FieldName, gallery.Name, 200)
	validator.MaxLen(FieldNameAr, gallery.NameAr, 200)

	if gallery.LogoURL != nil {
		validator.URL(FieldLogoURL, *gallery.LogoURL)
	}
	if gallery.Website != nil {
		validator.URL(FieldWebsite, *gallery.Website)
	}

	return validator.Err()
}
