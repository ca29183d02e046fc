package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"festas/internal/identity/service"
	apperrors "festas/pkg/errors"
	httputil "festas/pkg/http"
	"festas/pkg/logger"
	"festas/pkg/middleware"

	"github.com/julienschmidt/httprouter"
)

type AuthHandler struct {
	service service.IdentityService
	log     *logger.Logger
}

func NewAuthHandler(service service.IdentityService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		log:     log,
	}
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signInResponse struct {
	Token       string `json:"token"`
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
}

func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req signInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "SignIn", apperrors.InvalidInput("Invalid request body"))
		return
	}

	session, user, err := h.service.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, "SignIn", err)
		return
	}

	if err := httputil.WriteSuccess(w, signInResponse{
		Token:       session.Token,
		UserID:      user.ID,
		DisplayName: user.DisplayName,
	}); err != nil {
		h.log.Error("failed to write success response", "handler", "SignIn", "error", err)
	}
}

func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := h.service.SignOut(r.Context(), bearerToken(r)); err != nil {
		h.writeError(w, "SignOut", err)
		return
	}
	httputil.WriteNoContent(w)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	user := middleware.UserFrom(r.Context())
	if user == nil {
		h.writeError(w, "Me", apperrors.Unauthorized("Not signed in"))
		return
	}
	if err := httputil.WriteSuccess(w, user); err != nil {
		h.log.Error("failed to write success response", "handler", "Me", "error", err)
	}
}

func (h *AuthHandler) writeError(w http.ResponseWriter, handlerName string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "error", writeErr)
	}
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return ""
	}
	return strings.TrimSpace(auth[len(prefix):])
}

// RegisterPublicRoutes mounts the one route reachable without a session.
func (h *AuthHandler) RegisterPublicRoutes(router *httprouter.Router) {
	router.POST("/api/v1/auth/signin", h.SignIn)
}

func (h *AuthHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/auth/me", h.Me)
	router.POST("/api/v1/auth/signout", h.SignOut)
}
