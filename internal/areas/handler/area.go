package handler

import (
	"net/http"

	"festas/internal/areas/service"
	httputil "festas/pkg/http"
	"festas/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type AreaHandler struct {
	service service.AreaService
	log     *logger.Logger
}

func NewAreaHandler(service service.AreaService, log *logger.Logger) *AreaHandler {
	return &AreaHandler{
		service: service,
		log:     log,
	}
}

func (h *AreaHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	areas, err := h.service.List(r.Context())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, areas); err != nil {
		h.log.Error("failed to write success response", "handler", "List", "error", err)
	}
}

func (h *AreaHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/areas", h.List)
}
