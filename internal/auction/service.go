package auction

import (
	"context"
	"log/slog"
	"time"

	"github.com/lawhahq/lawha/internal/core/artwork"
	"github.com/lawhahq/lawha/internal/platform/apperr"
	"github.com/lawhahq/lawha/internal/platform/constants"
	"github.com/lawhahq/lawha/internal/platform/sec"
	"github.com/lawhahq/lawha/internal/platform/validate"
	"github.com/lawhahq/lawha/pkg/uuid"
)

// ArtworkCatalog is the slice of the artwork service the auction flow needs:
// existence checks before listing and status flips on lifecycle transitions.
type ArtworkCatalog interface {
	Get(context context.Context, idOrSlug string) (*artwork.Artwork, error)
	SetStatus(context context.Context, id string, status artwork.Status) error
}

type Service struct {
	repo     Repository
	broker   Broker
	artworks ArtworkCatalog
	logger   *slog.Logger
	now      func() time.Time
}

func NewService(repo Repository, broker Broker, artworks ArtworkCatalog, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		broker:   broker,
		artworks: artworks,
		logger:   logger,
		now:      time.Now,
	}
}

func (service *Service) List(context context.Context, filter Filter, limit, offset int) ([]*Detail, int, error) {
	auctions, total, err := service.repo.List(context, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	now := service.now()
	details := make([]*Detail, 0, len(auctions))
	for _, a := range auctions {
		details = append(details, NewDetail(a, now))
	}
	return details, total, nil
}

func (service *Service) Get(context context.Context, id string) (*Detail, error) {
	a, err := service.repo.Get(context, id)
	if err != nil {
		return nil, err
	}
	return NewDetail(a, service.now()), nil
}

func (service *Service) Create(context context.Context, sellerID string, sellerRole sec.UserRole, a *Auction) error {
	if !sellerRole.IsSeller() {
		return apperr.Forbidden("Only artist or gallery accounts can open auctions")
	}

	if a.BidIncrement == 0 {
		a.BidIncrement = constants.DefaultBidIncrement
	}
	if a.Currency == "" {
		a.Currency = constants.DefaultCurrency
	}

	if err := service.validate(a); err != nil {
		return err
	}

	piece, err := service.artworks.Get(context, a.ArtworkID)
	if err != nil {
		return err
	}
	if piece.OwnerID != sellerID {
		return apperr.Forbidden("You do not own this artwork")
	}
	if piece.Status != artwork.StatusListed {
		return apperr.Conflict("Artwork is not available for auction")
	}

	a.ID = uuid.New()
	a.SellerID = sellerID
	a.CurrentBid = 0
	a.BidCount = 0
	a.Phase = StatusUpcoming

	if err := service.repo.Create(context, a); err != nil {
		return err
	}

	if err := service.artworks.SetStatus(context, a.ArtworkID, artwork.StatusInAuction); err != nil {
		return err
	}

	service.logger.Info("auction_created",
		slog.String("auction_id", a.ID),
		slog.String("artwork_id", a.ArtworkID),
		slog.String("seller_id", sellerID),
	)
	return nil
}

func (service *Service) Update(context context.Context, actorID string, actorRole sec.UserRole, id string, input *Auction) (*Detail, error) {
	existing, err := service.repo.Get(context, id)
	if err != nil {
		return nil, err
	}

	if err := authorizeSeller(existing.SellerID, actorID, actorRole); err != nil {
		return nil, err
	}

	now := service.now()
	if existing.StatusAt(now) != StatusUpcoming {
		return nil, apperr.Conflict("Only upcoming auctions can be edited")
	}

	input.ArtworkID = existing.ArtworkID
	if input.BidIncrement == 0 {
		input.BidIncrement = existing.BidIncrement
	}
	if input.Currency == "" {
		input.Currency = existing.Currency
	}
	if err := service.validate(input); err != nil {
		return nil, err
	}

	existing.Title = input.Title
	existing.StartingPrice = input.StartingPrice
	existing.ReservePrice = input.ReservePrice
	existing.BidIncrement = input.BidIncrement
	existing.StartsAt = input.StartsAt
	existing.EndsAt = input.EndsAt

	if err := service.repo.Update(context, existing); err != nil {
		return nil, err
	}

	service.logger.Info("auction_updated", slog.String("auction_id", existing.ID))
	return NewDetail(existing, now), nil
}

func (service *Service) Delete(context context.Context, actorID string, actorRole sec.UserRole, id string) error {
	existing, err := service.repo.Get(context, id)
	if err != nil {
		return err
	}

	if err := authorizeSeller(existing.SellerID, actorID, actorRole); err != nil {
		return err
	}

	if existing.StatusAt(service.now()) != StatusUpcoming {
		return apperr.Conflict("Only upcoming auctions can be cancelled")
	}

	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	// The artwork goes back on the open market.
	if err := service.artworks.SetStatus(context, existing.ArtworkID, artwork.StatusListed); err != nil {
		return err
	}

	service.logger.Warn("auction_cancelled", slog.String("auction_id", id))
	return nil
}

// PlaceBid validates and records a bid while the auction row is locked, so
// two bidders racing for the same amount are strictly ordered.
func (service *Service) PlaceBid(context context.Context, bidderID, bidderName, auctionID string, amount int64) (*Bid, error) {
	bid, err := service.repo.PlaceBid(context, auctionID, func(a *Auction) (*Bid, error) {
		now := service.now()
		if a.StatusAt(now) != StatusLive {
			return nil, apperr.Unprocessable("Auction is not live")
		}
		if a.SellerID == bidderID {
			return nil, apperr.Forbidden("Sellers cannot bid on their own auctions")
		}
		if amount <= 0 {
			return nil, apperr.ValidationError("Validation failed",
				apperr.FieldError{Field: FieldAmount, Message: "Bid amount must be a positive integer"})
		}
		if amount <= a.CurrentBid || amount < a.NextBidMinimum() {
			return nil, apperr.Unprocessable("Bid is below the minimum for this auction")
		}

		return &Bid{
			ID:         uuid.New(),
			AuctionID:  a.ID,
			BidderID:   bidderID,
			BidderName: bidderName,
			Amount:     amount,
			CreatedAt:  now.UTC(),
		}, nil
	})
	if err != nil {
		return nil, err
	}

	a, err := service.repo.Get(context, auctionID)
	if err != nil {
		return nil, err
	}

	event := Event{
		Type:      EventBidPlaced,
		AuctionID: auctionID,
		Amount:    bid.Amount,
		BidCount:  a.BidCount,
		Bidder:    AnonymizeBidder(bid.BidderName),
		At:        bid.CreatedAt,
	}
	if err := service.broker.Publish(context, event); err != nil {
		service.logger.Warn("bid_event_publish_failed",
			slog.String("auction_id", auctionID),
			slog.String("error", err.Error()),
		)
	}

	service.logger.Info("bid_placed",
		slog.String("auction_id", auctionID),
		slog.String("bid_id", bid.ID),
		slog.Int64("amount", bid.Amount),
	)
	return bid, nil
}

// ListBids returns the newest-first bid page with bidder names anonymized.
func (service *Service) ListBids(context context.Context, auctionID string, limit, offset int) ([]*Bid, int, error) {
	if _, err := service.repo.Get(context, auctionID); err != nil {
		return nil, 0, err
	}

	bids, total, err := service.repo.ListBids(context, auctionID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	for _, bid := range bids {
		bid.BidderName = AnonymizeBidder(bid.BidderName)
	}
	return bids, total, nil
}

func (service *Service) ToggleWatch(context context.Context, auctionID, userID string) (bool, error) {
	if _, err := service.repo.Get(context, auctionID); err != nil {
		return false, err
	}
	return service.repo.ToggleWatch(context, auctionID, userID)
}

// Subscribe exposes the broker to the stream handler.
func (service *Service) Subscribe(context context.Context, auctionID string) (<-chan Event, error) {
	if _, err := service.repo.Get(context, auctionID); err != nil {
		return nil, err
	}
	return service.broker.Subscribe(context, auctionID)
}

// # Lifecycle transitions

// transition persists every phase change an auction is due for at now and
// publishes the matching events. A short auction that started and ended
// between two ticks still announces both transitions, in order.
func (service *Service) transition(context context.Context, a *Auction, now time.Time) error {
	derived := a.StatusAt(now)

	if a.Phase == StatusUpcoming && derived != StatusUpcoming {
		if err := service.repo.SetPhase(context, a.ID, StatusLive); err != nil {
			return err
		}
		a.Phase = StatusLive

		service.publish(context, Event{Type: EventAuctionLive, AuctionID: a.ID, At: now.UTC()})
		service.logger.Info("auction_went_live", slog.String("auction_id", a.ID))
	}

	if a.Phase == StatusLive && derived == StatusEnded {
		if err := service.settle(context, a); err != nil {
			return err
		}
		if err := service.repo.SetPhase(context, a.ID, StatusEnded); err != nil {
			return err
		}
		a.Phase = StatusEnded

		service.publish(context, Event{Type: EventAuctionEnded, AuctionID: a.ID, Amount: a.CurrentBid, BidCount: a.BidCount, At: now.UTC()})
		service.logger.Info("auction_ended", slog.String("auction_id", a.ID))
	}

	return nil
}

// settle resolves the winner. The highest bid wins iff it meets the reserve
// price; a reserve-unmet auction ends with no sale.
func (service *Service) settle(context context.Context, a *Auction) error {
	highest, err := service.repo.HighestBid(context, a.ID)
	if err != nil {
		if ae := apperr.As(err); ae != nil && ae.Code == "NOT_FOUND" {
			highest = nil
		} else {
			return err
		}
	}

	sold := highest != nil && (a.ReservePrice == nil || highest.Amount >= *a.ReservePrice)

	if sold {
		if err := service.repo.SetWinner(context, a.ID, highest); err != nil {
			return err
		}
		a.WinnerID = &highest.BidderID

		service.logger.Info("auction_settled",
			slog.String("auction_id", a.ID),
			slog.String("winning_bid_id", highest.ID),
			slog.Int64("amount", highest.Amount),
		)
		return service.artworks.SetStatus(context, a.ArtworkID, artwork.StatusSold)
	}

	if err := service.repo.SetWinner(context, a.ID, nil); err != nil {
		return err
	}

	service.logger.Info("auction_settled_no_sale", slog.String("auction_id", a.ID))
	return service.artworks.SetStatus(context, a.ArtworkID, artwork.StatusListed)
}

func (service *Service) publish(context context.Context, event Event) {
	if err := service.broker.Publish(context, event); err != nil {
		service.logger.Warn("auction_event_publish_failed",
			slog.String("auction_id", event.AuctionID),
			slog.String("type", event.Type),
			slog.String("error", err.Error()),
		)
	}
}

func (service *Service) validate(a *Auction) error {
	validator := &validate.Validator{}
	validator.Required(FieldTitle, a.Title).MaxLen(FieldTitle, a.Title, 300)
	validator.UUID(FieldArtworkID, a.ArtworkID)
	validator.Positive(FieldStartingPrice, a.StartingPrice)
	validator.Positive(FieldBidIncrement, a.BidIncrement)
	validator.Custom(FieldEndsAt, !a.EndsAt.After(a.StartsAt), "End time must be after start time")

	if a.ReservePrice != nil {
		validator.Custom(FieldReservePrice, *a.ReservePrice < a.StartingPrice, "Reserve price cannot be below the starting price")
	}

	return validator.Err()
}

func authorizeSeller(sellerID, actorID string, actorRole sec.UserRole) error {
	if sellerID == actorID || actorRole.AtLeast(sec.RoleModerator) {
		return nil
	}
	return apperr.Forbidden("You do not own this auction")
}
