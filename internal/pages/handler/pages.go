package handler

import (
	"net/http"

	httputil "festas/pkg/http"
	"festas/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

// PagesHandler serves the two static informational pages. The content is
// condominium boilerplate; the frontend renders it verbatim.
type PagesHandler struct {
	log *logger.Logger
}

func NewPagesHandler(log *logger.Logger) *PagesHandler {
	return &PagesHandler{log: log}
}

type pageResponse struct {
	Title string   `json:"title"`
	Body  []string `json:"body"`
}

var privacyPage = pageResponse{
	Title: "Política de Privacidade",
	Body: []string{
		"Uso interno do condomínio. Coletamos somente os dados necessários para reservas (nome, contato, apartamento, datas e horários).",
		"Para remoção ou retificação de dados, contate a administração.",
	},
}

var termsPage = pageResponse{
	Title: "Termos de Uso",
	Body: []string{
		"Reservas destinam-se a condôminos autorizados.",
		"Respeite as regras da área e os horários reservados.",
		"O condomínio pode cancelar reservas em caso de descumprimento.",
	},
}

func (h *PagesHandler) Privacy(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	if err := httputil.WriteSuccess(w, privacyPage); err != nil {
		h.log.Error("failed to write success response", "handler", "Privacy", "error", err)
	}
}

func (h *PagesHandler) Terms(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	if err := httputil.WriteSuccess(w, termsPage); err != nil {
		h.log.Error("failed to write success response", "handler", "Terms", "error", err)
	}
}

func (h *PagesHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/pages/privacy", h.Privacy)
	router.GET("/api/v1/pages/terms", h.Terms)
}
