package artwork

import (
	"context"
	"log/slog"

	"github.com/lawhahq/lawha/internal/platform/apperr"
	"github.com/lawhahq/lawha/internal/platform/constants"
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

func (service *Service) List(context context.Context, filter Filter, limit, offset int) ([]*Artwork, int, error) {
	return service.repo.List(context, filter, limit, offset)
}

// Get resolves an artwork by UUID or by slug.
func (service *Service) Get(context context.Context, idOrSlug string) (*Artwork, error) {
	v := &validate.Validator{}
	if v.UUID("id", idOrSlug); !v.HasErrors() {
		return service.repo.Get(context, idOrSlug)
	}
	return service.repo.GetBySlug(context, idOrSlug)
}

func (service *Service) Create(context context.Context, ownerID string, ownerRole sec.UserRole, artwork *Artwork) error {
	if !ownerRole.IsSeller() {
		return apperr.Forbidden("Only artist or gallery accounts can list artworks")
	}

	if artwork.Status == "" {
		artwork.Status = StatusDraft
	}
	if artwork.Currency == "" {
		artwork.Currency = constants.DefaultCurrency
	}

	if err := service.validate(artwork); err != nil {
		return err
	}

	artwork.ID = uuid.New()
	artwork.OwnerID = ownerID
	artwork.Slug = slug.From(artwork.Title)

	if err := service.repo.Create(context, artwork); err != nil {
		return err
	}

	service.logger.Info("artwork_created",
		slog.String("artwork_id", artwork.ID),
		slog.String("owner_id", ownerID),
	)
	return nil
}

func (service *Service) Update(context context.Context, actorID string, actorRole sec.UserRole, id string, input *Artwork) (*Artwork, error) {
	existing, err := service.repo.Get(context, id)
	if err != nil {
		return nil, err
	}

	if err := authorizeOwner(existing.OwnerID, actorID, actorRole); err != nil {
		return nil, err
	}

	// Once a piece enters an auction its listing is frozen until settlement.
	if existing.Status == StatusInAuction {
		return nil, apperr.Conflict("Artwork is in a live auction and cannot be edited")
	}

	if input.Status != "" && !input.Status.Valid() {
		return nil, apperr.ValidationError("Validation failed", apperr.FieldError{Field: FieldStatus, Message: "Invalid artwork status"})
	}

	if err := service.validate(input); err != nil {
		return nil, err
	}

	existing.Title = input.Title
	existing.TitleAr = input.TitleAr
	existing.Description = input.Description
	existing.DescriptionAr = input.DescriptionAr
	existing.Medium = input.Medium
	existing.Year = input.Year
	existing.WidthCM = input.WidthCM
	existing.HeightCM = input.HeightCM
	existing.Price = input.Price
	existing.ImageURL = input.ImageURL
	if input.Status != "" {
		existing.Status = input.Status
	}

	if err := service.repo.Update(context, existing); err != nil {
		return nil, err
	}

	service.logger.Info("artwork_updated", slog.String("artwork_id", existing.ID))
	return existing, nil
}

// SetStatus is the hook the auction lifecycle uses to move an artwork
// between listed, in_auction, and sold.
func (service *Service) SetStatus(context context.Context, id string, status Status) error {
	if !status.Valid() {
		return apperr.ValidationError("Validation failed", apperr.FieldError{Field: FieldStatus, Message: "Invalid artwork status"})
	}
	return service.repo.SetStatus(context, id, status)
}

func (service *Service) Delete(context context.Context, actorID string, actorRole sec.UserRole, id string) error {
	existing, err := service.repo.Get(context, id)
	if err != nil {
		return err
	}

	if err := authorizeOwner(existing.OwnerID, actorID, actorRole); err != nil {
		return err
	}

	if existing.Status == StatusInAuction {
		return apperr.Conflict("Artwork is in a live auction and cannot be removed")
	}

	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.logger.Warn("artwork_deleted", slog.String("artwork_id", id))
	return nil
}

func (service *Service) validate(artwork *Artwork) error {
	validator := &validate.Validator{}
	validator.Required(FieldTitle, artwork.Title).MaxLen(FieldTitle, artwork.Title, 300)
	validator.MaxLen(FieldTitleAr, artwork.TitleAr, 300)
	validator.UUID(FieldArtistID, artwork.ArtistID)
	validator.Positive(FieldPrice, artwork.Price)

	if artwork.ImageURL != nil {
		validator.URL(FieldImageURL, *artwork.ImageURL)
	}

	return validator.Err()
}

func authorizeOwner(ownerID, actorID string, actorRole sec.UserRole) error {
	if ownerID == actorID || actorRole.AtLeast(sec.RoleModerator) {
		return nil
	}
	return apperr.Forbidden("You do not own this resource")
}
