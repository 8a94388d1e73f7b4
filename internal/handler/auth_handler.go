package handler

import (
	"errors"
	"net/http"

	"github.com/vilain-Petit-Canard/API-Films/internal/errs"
	"github.com/vilain-Petit-Canard/API-Films/internal/models"
	"github.com/vilain-Petit-Canard/API-Films/internal/service"
)

type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(s *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: s}
}

// @Summary Register
// @Description Creates an account. The password needs 8 to 20 characters with a lowercase letter,
// @Description an uppercase letter, a digit and a symbol.
// @Tags utilisateurs
// @Accept json
// @Produce json
// @Param body body models.Credentials true "credentials"
// @Success 200 {object} map[string]any
// @Failure 400 {object} errs.HTTPError
// @Router /utilisateurs/inscription [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.Credentials
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, errs.NewBadRequestError(service.ErrNonConforming.Error()))
		return
	}

	acc, err := h.svc.Register(r.Context(), req)
	if err != nil {
		writeAuthError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, acc)
}

// @Summary Login
// @Tags utilisateurs
// @Accept json
// @Produce json
// @Param body body models.Credentials true "credentials"
// @Success 200 {object} map[string]any
// @Failure 400 {object} errs.HTTPError
// @Router /utilisateurs/connexion [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.Credentials
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, errs.NewBadRequestError(err.Error()))
		return
	}

	acc, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeAuthError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, acc)
}

func writeAuthError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrNonConforming),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrInvalidPassword):
		writeError(w, r, errs.NewBadRequestError(err.Error()))
	default:
		writeError(w, r, err)
	}
}
