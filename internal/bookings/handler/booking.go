package handler

import (
	"encoding/json"
	"net/http"

	"festas/internal/bookings/service"
	apperrors "festas/pkg/errors"
	httputil "festas/pkg/http"
	"festas/pkg/logger"
	"festas/pkg/middleware"
	"festas/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type BookingHandler struct {
	service service.BookingService
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log,
	}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var draft model.BookingDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		h.writeError(w, "Create", apperrors.InvalidInput("Invalid request body"))
		return
	}

	booking, err := h.service.Create(r.Context(), &draft, middleware.UserFrom(r.Context()))
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, booking); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

// Agenda serves the shared schedule view: all bookings for one area on one
// date, earliest first.
func (h *BookingHandler) Agenda(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	bookings, err := h.service.Agenda(r.Context(), query.Get("area_id"), query.Get("date"))
	if err != nil {
		h.writeError(w, "Agenda", err)
		return
	}

	if err := httputil.WriteSuccess(w, bookings); err != nil {
		h.log.Error("failed to write success response", "handler", "Agenda", "error", err)
	}
}

// Conflicts backs the form's standalone conflict check: same rule the create
// path re-runs before persisting.
func (h *BookingHandler) Conflicts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	conflicts, err := h.service.FindConflicts(
		r.Context(),
		query.Get("area_id"),
		query.Get("date"),
		query.Get("start"),
		query.Get("end"),
	)
	if err != nil {
		h.writeError(w, "Conflicts", err)
		return
	}

	if conflicts == nil {
		conflicts = []*model.Booking{}
	}
	if err := httputil.WriteSuccess(w, conflicts); err != nil {
		h.log.Error("failed to write success response", "handler", "Conflicts", "error", err)
	}
}

func (h *BookingHandler) Mine(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "Mine", err)
		return
	}

	bookings, totalCount, err := h.service.Mine(r.Context(), middleware.UserFrom(r.Context()), limit, offset)
	if err != nil {
		h.writeError(w, "Mine", err)
		return
	}

	if bookings == nil {
		bookings = []*model.Booking{}
	}
	if err := httputil.WritePaginated(w, bookings, totalCount, limit, int(offset)); err != nil {
		h.log.Error("failed to write paginated response", "handler", "Mine", "error", err)
	}
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	if err := h.service.Cancel(r.Context(), id, middleware.UserFrom(r.Context())); err != nil {
		h.writeError(w, "Cancel", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	if err := h.service.Delete(r.Context(), id, middleware.UserFrom(r.Context())); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *BookingHandler) writeError(w http.ResponseWriter, handlerName string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "error", writeErr)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.Create)
	router.GET("/api/v1/bookings", h.Agenda)
	router.GET("/api/v1/bookings/conflicts", h.Conflicts)
	router.GET("/api/v1/bookings/mine", h.Mine)
	router.POST("/api/v1/bookings/id/:id/cancel", h.Cancel)
	router.DELETE("/api/v1/bookings/id/:id", h.Delete)
}
