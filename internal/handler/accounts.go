package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Shivanand-hulikatti/eventos-platform/internal/model"
	"github.com/Shivanand-hulikatti/eventos-platform/internal/service"
)

// AccountService is what the account handlers need from the service layer.
type AccountService interface {
	Register(ctx context.Context, req model.RegisterRequest) (*model.Session, error)
	Login(ctx context.Context, req model.LoginRequest) (*model.Session, error)
	Logout(ctx context.Context, token string) error
	Profile(ctx context.Context, p *model.Principal) (*model.User, error)
	UpdateProfile(ctx context.Context, p *model.Principal, req model.ProfileUpdateRequest) (*model.User, error)
	ChangeRole(ctx context.Context, p *model.Principal, userID string, req model.RoleChangeRequest) (*model.User, error)
}

// AccountHandler serves sign-up, sign-in and profile routes.
type AccountHandler struct {
	svc     AccountService
	cookies *CookieHelper
}

// NewAccountHandler constructs an AccountHandler.
func NewAccountHandler(svc AccountService, cookies *CookieHelper) *AccountHandler {
	return &AccountHandler{svc: svc, cookies: cookies}
}

// Register handles POST /registro/
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	if redirectSignedIn(w, r) {
		return
	}

	var req model.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badBody(w, err)
		return
	}

	sess, err := h.svc.Register(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	h.cookies.SetAccessToken(w, sess.Token, sess.ExpiresAt)
	writeJSON(w, http.StatusCreated, sess)
}

// Login handles POST /login/
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	if redirectSignedIn(w, r) {
		return
	}

	var req model.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badBody(w, err)
		return
	}

	sess, err := h.svc.Login(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	h.cookies.SetAccessToken(w, sess.Token, sess.ExpiresAt)
	writeJSON(w, http.StatusOK, sess)
}

// Logout handles POST /logout/
func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := bearerToken(r); token != "" {
		if err := h.svc.Logout(r.Context(), token); err != nil {
			writeServiceError(w, r, err)
			return
		}
	}
	h.cookies.ClearAccessToken(w)
	writeJSON(w, http.StatusOK, model.MessageResponse{
		Message:  "You have been signed out.",
		Redirect: homePath,
	})
}

// Profile handles GET /perfil/
func (h *AccountHandler) Profile(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.Profile(r.Context(), PrincipalFrom(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// UpdateProfile handles POST /perfil/
func (h *AccountHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	p := PrincipalFrom(r.Context())
	if !p.Authenticated() {
		writeDenied(w, &service.AccessError{Message: "You must log in to edit your profile.", LoginRequired: true})
		return
	}

	var req model.ProfileUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badBody(w, err)
		return
	}

	u, err := h.svc.UpdateProfile(r.Context(), p, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// ChangeRole handles POST /usuarios/{id}/rol/
func (h *AccountHandler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	var req model.RoleChangeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badBody(w, err)
		return
	}

	u, err := h.svc.ChangeRole(r.Context(), PrincipalFrom(r.Context()), chi.URLParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// redirectSignedIn sends authenticated callers home and reports whether it did.
func redirectSignedIn(w http.ResponseWriter, r *http.Request) bool {
	if !PrincipalFrom(r.Context()).Authenticated() {
		return false
	}
	w.Header().Set("Location", homePath)
	writeJSON(w, http.StatusSeeOther, model.MessageResponse{
		Message:  "You are already signed in.",
		Redirect: homePath,
	})
	return true
}
