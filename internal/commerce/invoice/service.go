package invoice

import (
	"context"
	"log/slog"
	"time"

	"github.com/lawhahq/lawha/internal/platform/apperr"
	"github.com/lawhahq/lawha/internal/platform/constants"
	"github.com/lawhahq/lawha/internal/platform/sec"
	"github.com/lawhahq/lawha/internal/platform/validate"
	"github.com/lawhahq/lawha/pkg/uuid"
)

type Service struct {
	repo       Repository
	sellerName string // ZATCA registered seller name
	vatNumber  string // ZATCA VAT registration number
	logger     *slog.Logger
	now        func() time.Time
}

func NewService(repo Repository, sellerName, vatNumber string, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		sellerName: sellerName,
		vatNumber:  vatNumber,
		logger:     logger,
		now:        time.Now,
	}
}

func (service *Service) List(context context.Context, sellerID string, status Status, limit, offset int) ([]*Invoice, int, error) {
	return service.repo.List(context, Filter{SellerID: sellerID, Status: status}, limit, offset)
}

func (service *Service) Get(context context.Context, actorID string, actorRole sec.UserRole, id string) (*Invoice, error) {
	inv, err := service.repo.Get(context, id)
	if err != nil {
		return nil, err
	}

	buyer := inv.BuyerID != nil && *inv.BuyerID == actorID
	if inv.SellerID != actorID && !buyer && !actorRole.AtLeast(sec.RoleModerator) {
		return nil, apperr.Forbidden("You do not have access to this invoice")
	}
	return inv, nil
}

func (service *Service) Create(context context.Context, sellerID string, sellerRole sec.UserRole, inv *Invoice) error {
	if !sellerRole.IsSeller() {
		return apperr.Forbidden("Only artist or gallery accounts can create invoices")
	}

	if inv.Currency == "" {
		inv.Currency = constants.DefaultCurrency
	}
	if err := service.validate(inv); err != nil {
		return err
	}

	inv.ID = uuid.New()
	inv.SellerID = sellerID
	inv.Status = StatusDraft
	for i := range inv.Items {
		inv.Items[i].ID = uuid.New()
	}
	inv.Totalize()

	if err := service.repo.Create(context, inv); err != nil {
		return err
	}

	service.logger.Info("invoice_created",
		slog.String("invoice_id", inv.ID),
		slog.String("seller_id", sellerID),
	)
	return nil
}

func (service *Service) Update(context context.Context, actorID string, actorRole sec.UserRole, id string, input *Invoice) (*Invoice, error) {
	existing, err := service.repo.Get(context, id)
	if err != nil {
		return nil, err
	}

	if err := authorizeSeller(existing.SellerID, actorID, actorRole); err != nil {
		return nil, err
	}
	if existing.Status != StatusDraft {
		return nil, apperr.Conflict("Issued invoices are immutable")
	}

	if err := service.validate(input); err != nil {
		return nil, err
	}

	existing.BuyerID = input.BuyerID
	existing.AuctionID = input.AuctionID
	existing.Items = input.Items
	for i := range existing.Items {
		if existing.Items[i].ID == "" {
			existing.Items[i].ID = uuid.New()
		}
	}
	existing.Totalize()

	if err := service.repo.Update(context, existing); err != nil {
		return nil, err
	}

	service.logger.Info("invoice_updated", slog.String("invoice_id", existing.ID))
	return existing, nil
}

// Issue finalizes a draft: totals are frozen, a sequential number is
// assigned, and the ZATCA QR payload is stamped on the record.
func (service *Service) Issue(context context.Context, actorID string, actorRole sec.UserRole, id string) (*Invoice, error) {
	existing, err := service.repo.Get(context, id)
	if err != nil {
		return nil, err
	}

	if err := authorizeSeller(existing.SellerID, actorID, actorRole); err != nil {
		return nil, err
	}
	if !existing.Status.CanTransition(StatusIssued) {
		return nil, apperr.Conflict("Only draft invoices can be issued")
	}
	if len(existing.Items) == 0 {
		return nil, apperr.Unprocessable("Cannot issue an invoice with no line items")
	}

	issuedAt := service.now().UTC()
	existing.Status = StatusIssued
	existing.IssuedAt = &issuedAt
	existing.QR = QRPayload(service.sellerName, service.vatNumber, issuedAt, existing.Total, existing.VATAmount)

	if err := service.repo.Issue(context, existing); err != nil {
		return nil, err
	}

	service.logger.Info("invoice_issued",
		slog.String("invoice_id", existing.ID),
		slog.String("number", existing.Number),
		slog.String("total", existing.Total.StringFixed(2)),
	)
	return existing, nil
}

// SetStatus moves an invoice along its lifecycle: issued invoices can be
// marked paid or cancelled, drafts can only be cancelled.
func (service *Service) SetStatus(context context.Context, actorID string, actorRole sec.UserRole, id string, status Status) (*Invoice, error) {
	if status == StatusIssued {
		return service.Issue(context, actorID, actorRole, id)
	}

	existing, err := service.repo.Get(context, id)
	if err != nil {
		return nil, err
	}

	if err := authorizeSeller(existing.SellerID, actorID, actorRole); err != nil {
		return nil, err
	}
	if !status.Valid() || !existing.Status.CanTransition(status) {
		return nil, apperr.Conflict("Invalid invoice status transition")
	}

	if err := service.repo.SetStatus(context, id, status); err != nil {
		return nil, err
	}
	existing.Status = status

	service.logger.Info("invoice_status_changed",
		slog.String("invoice_id", id),
		slog.String("status", string(status)),
	)
	return existing, nil
}

func (service *Service) Delete(context context.Context, actorID string, actorRole sec.UserRole, id string) error {
	existing, err := service.repo.Get(context, id)
	if err != nil {
		return err
	}

	if err := authorizeSeller(existing.SellerID, actorID, actorRole); err != nil {
		return err
	}
	if existing.Status != StatusDraft {
		return apperr.Conflict("Issued invoices cannot be deleted")
	}

	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.logger.Warn("invoice_deleted", slog.String("invoice_id", id))
	return nil
}

func (service *Service) validate(inv *Invoice) error {
	validator := &validate.Validator{}
	validator.Custom(FieldItems, len(inv.Items) == 0, "At least one line item is required")

	for _, item := range inv.Items {
		validator.Required(FieldDescription, item.Description)
		validator.Custom(FieldQuantity, item.Quantity <= 0, "Quantity must be a positive integer")
		validator.Custom(FieldUnitPrice, item.UnitPrice.IsNegative() || item.UnitPrice.IsZero(), "Unit price must be positive")
	}

	if inv.BuyerID != nil {
		validator.UUID("buyer_id", *inv.BuyerID)
	}
	if inv.AuctionID != nil {
		validator.UUID("auction_id", *inv.AuctionID)
	}

	return validator.Err()
}

func authorizeSeller(sellerID, actorID string, actorRole sec.UserRole) error {
	if sellerID == actorID || actorRole.AtLeast(sec.RoleModerator) {
		return nil
	}
	return apperr.Forbidden("You do not own this invoice")
}
