package auction

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lawhahq/lawha/internal/platform/apperr"
	"github.com/lawhahq/lawha/internal/platform/middleware"
	requestutil "github.com/lawhahq/lawha/internal/platform/request"
	"github.com/lawhahq/lawha/internal/platform/respond"
	"github.com/lawhahq/lawha/internal/platform/sec"
	"github.com/lawhahq/lawha/internal/platform/validate"
	"github.com/lawhahq/lawha/pkg/pagination"
)

// streamHeartbeat keeps idle SSE connections alive through proxies.
const streamHeartbeat = 15 * time.Second

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public
	router.Get("/", handler.list)
	router.Get("/{id}", handler.get)
	router.Get("/{id}/bids", handler.listBids)
	router.Get("/{id}/stream", handler.stream)

	// Any authenticated account
	router.Group(func(authed chi.Router) {
		authed.Use(middleware.RequireAuth)

		authed.Post("/{id}/bids", handler.placeBid)
		authed.Post("/{id}/watch", handler.toggleWatch)
	})

	// Sellers only
	router.Group(func(seller chi.Router) {
		seller.Use(middleware.RequireRole(sec.RoleArtist))

		seller.Post("/", handler.create)
		seller.Patch("/{id}", handler.update)
		seller.Delete("/{id}", handler.delete)
	})

	return router
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	filter := Filter{
		Status:    Status(request.URL.Query().Get("status")),
		ArtworkID: request.URL.Query().Get("artwork_id"),
		SellerID:  request.URL.Query().Get("seller_id"),
	}

	auctions, total, err := handler.service.List(request.Context(), filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, auctions, pagination.NewMeta(params.Page, params.Limit, total))
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	detail, err := handler.service.Get(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, detail)
}

func (handler *Handler) listBids(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	bids, total, err := handler.service.ListBids(request.Context(), requestutil.ID(request, "id"), params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, bids, pagination.NewMeta(params.Page, params.Limit, total))
}

type placeBidRequest struct {
	Amount int64 `json:"amount"`
}

// auctionRequest is the write shape. It exists so sellers can set a reserve
// price without the amount ever appearing in read payloads.
type auctionRequest struct {
	ArtworkID     string    `json:"artwork_id"`
	Title         string    `json:"title"`
	StartingPrice int64     `json:"starting_price"`
	ReservePrice  *int64    `json:"reserve_price,omitempty"`
	BidIncrement  int64     `json:"bid_increment,omitempty"`
	Currency      string    `json:"currency,omitempty"`
	StartsAt      time.Time `json:"starts_at"`
	EndsAt        time.Time `json:"ends_at"`
}

func (r auctionRequest) toAuction() *Auction {
	return &Auction{
		ArtworkID:     r.ArtworkID,
		Title:         r.Title,
		StartingPrice: r.StartingPrice,
		ReservePrice:  r.ReservePrice,
		BidIncrement:  r.BidIncrement,
		Currency:      r.Currency,
		StartsAt:      r.StartsAt,
		EndsAt:        r.EndsAt,
	}
}

func (handler *Handler) placeBid(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input placeBidRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	bid, err := handler.service.PlaceBid(request.Context(), claims.UserID, claims.Username, requestutil.ID(request, "id"), input.Amount)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	bid.BidderName = AnonymizeBidder(bid.BidderName)
	respond.Created(writer, bid)
}

func (handler *Handler) toggleWatch(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	watching, err := handler.service.ToggleWatch(request.Context(), requestutil.ID(request, "id"), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]bool{"watching": watching})
}

// stream pushes live auction events to the client as server-sent events.
// The subscription is torn down when the client disconnects or the server
// shuts down; both arrive through the request context.
func (handler *Handler) stream(writer http.ResponseWriter, request *http.Request) {
	flusher, ok := writer.(http.Flusher)
	if !ok {
		respond.Error(writer, request, apperr.Internal(fmt.Errorf("response writer does not support streaming")))
		return
	}

	events, err := handler.service.Subscribe(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	writer.Header().Set("Content-Type", "text/event-stream")
	writer.Header().Set("Cache-Control", "no-cache")
	writer.Header().Set("Connection", "keep-alive")
	writer.WriteHeader(http.StatusOK)
	flusher.Flush()

	heartbeat := time.NewTicker(streamHeartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-request.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprint(writer, ": ping\n\n")
			flusher.Flush()
		case event, open := <-events:
			if !open {
				return
			}

			payload, err := json.Marshal(event)
			if err != nil {
				continue
			}
			fmt.Fprintf(writer, "event: %s\ndata: %s\n\n", event.Type, payload)
			flusher.Flush()
		}
	}
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input auctionRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	a := input.toAuction()
	if err := handler.service.Create(request.Context(), claims.UserID, sec.UserRole(claims.Role), a); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, NewDetail(a, handler.service.now()))
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input auctionRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	updated, err := handler.service.Update(request.Context(), claims.UserID, sec.UserRole(claims.Role), requestutil.ID(request, "id"), input.toAuction())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, updated)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), claims.UserID, sec.UserRole(claims.Role), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
