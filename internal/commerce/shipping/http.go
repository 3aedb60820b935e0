package shipping

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lawhahq/lawha/internal/platform/middleware"
	requestutil "github.com/lawhahq/lawha/internal/platform/request"
	"github.com/lawhahq/lawha/internal/platform/respond"
	"github.com/lawhahq/lawha/internal/platform/sec"
	"github.com/lawhahq/lawha/internal/platform/validate"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Tracking is readable by any authenticated party to the order.
	router.Group(func(authed chi.Router) {
		authed.Use(middleware.RequireAuth)

		authed.Get("/tracking/{orderID}", handler.listTracking)
	})

	// Sellers only
	router.Group(func(seller chi.Router) {
		seller.Use(middleware.RequireRole(sec.RoleArtist))

		seller.Get("/profile", handler.getProfile)
		seller.Put("/profile", handler.putProfile)
		seller.Post("/tracking/{orderID}/events", handler.appendTracking)
	})

	return router
}

func (handler *Handler) getProfile(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.service.GetProfile(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, profile)
}

func (handler *Handler) putProfile(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input Profile
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if err := handler.service.PutProfile(request.Context(), claims.UserID, sec.UserRole(claims.Role), &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, input)
}

func (handler *Handler) listTracking(writer http.ResponseWriter, request *http.Request) {
	events, err := handler.service.ListTracking(request.Context(), requestutil.ID(request, "orderID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, events)
}

func (handler *Handler) appendTracking(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input TrackingEvent
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}
	input.OrderID = requestutil.ID(request, "orderID")

	event, err := handler.service.AppendTracking(request.Context(), claims.UserID, sec.UserRole(claims.Role), &input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, event)
}
