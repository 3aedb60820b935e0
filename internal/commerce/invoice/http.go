package invoice

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lawhahq/lawha/internal/platform/middleware"
	requestutil "github.com/lawhahq/lawha/internal/platform/request"
	"github.com/lawhahq/lawha/internal/platform/respond"
	"github.com/lawhahq/lawha/internal/platform/sec"
	"github.com/lawhahq/lawha/internal/platform/validate"
	"github.com/lawhahq/lawha/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Buyers can read invoices addressed to them.
	router.Group(func(authed chi.Router) {
		authed.Use(middleware.RequireAuth)

		authed.Get("/{id}", handler.get)
	})

	// Sellers only
	router.Group(func(seller chi.Router) {
		seller.Use(middleware.RequireRole(sec.RoleArtist))

		seller.Get("/", handler.list)
		seller.Post("/", handler.create)
		seller.Patch("/{id}", handler.update)
		seller.Post("/{id}/issue", handler.issue)
		seller.Patch("/{id}/status", handler.setStatus)
		seller.Delete("/{id}", handler.delete)
	})

	return router
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	status := Status(request.URL.Query().Get("status"))

	invoices, total, err := handler.service.List(request.Context(), userID, status, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, invoices, pagination.NewMeta(params.Page, params.Limit, total))
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	inv, err := handler.service.Get(request.Context(), claims.UserID, sec.UserRole(claims.Role), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, inv)
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input Invoice
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if err := handler.service.Create(request.Context(), claims.UserID, sec.UserRole(claims.Role), &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, input)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input Invoice
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	updated, err := handler.service.Update(request.Context(), claims.UserID, sec.UserRole(claims.Role), requestutil.ID(request, "id"), &input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, updated)
}

func (handler *Handler) issue(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	issued, err := handler.service.Issue(request.Context(), claims.UserID, sec.UserRole(claims.Role), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, issued)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (handler *Handler) setStatus(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input statusRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	updated, err := handler.service.SetStatus(request.Context(), claims.UserID, sec.UserRole(claims.Role), requestutil.ID(request, "id"), Status(input.Status))
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
