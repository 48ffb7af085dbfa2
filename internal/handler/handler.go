// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer.
package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/Shivanand-hulikatti/eventos-platform/internal/model"
	"github.com/Shivanand-hulikatti/eventos-platform/internal/repository"
	"github.com/Shivanand-hulikatti/eventos-platform/internal/service"
)

const (
	loginPath  = "/login/"
	deniedPath = "/acceso-denegado/"
	homePath   = "/"
)

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg, Code: code})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB limit
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func badBody(w http.ResponseWriter, err error) {
	writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body: "+err.Error())
}

// writeServiceError maps service and repository errors onto responses.
// Anything unrecognised is logged and answered as a bare 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var access *service.AccessError
	var invalid *service.ValidationError

	switch {
	case errors.As(err, &access):
		writeDenied(w, access)
	case errors.As(err, &invalid):
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{
			Error:  "please correct the errors below",
			Code:   codeValidationFailed,
			Fields: invalid.Fields,
		})
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, "not found")
	case errors.Is(err, service.ErrPageNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, "invalid page")
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, codeInvalidCredentials, "please enter a correct username and password")
	case errors.Is(err, service.ErrInvalidToken):
		writeJSON(w, http.StatusUnauthorized, model.ErrorResponse{
			Error:    "your session has expired, please log in again",
			Code:     codeInvalidToken,
			Redirect: loginPath,
		})
	default:
		log.Printf("request_id=%s %s %s: %v", requestID(r), r.Method, r.URL.Path, err)
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}

// writeDenied answers an authorization denial. Anonymous callers are sent
// to the login page, everyone else to the denial notice.
func writeDenied(w http.ResponseWriter, e *service.AccessError) {
	if e.LoginRequired {
		writeJSON(w, http.StatusUnauthorized, model.ErrorResponse{
			Error:    e.Message,
			Code:     codeLoginRequired,
			Redirect: loginPath,
		})
		return
	}
	writeJSON(w, http.StatusForbidden, model.ErrorResponse{
		Error:    e.Message,
		Code:     codeAccessDenied,
		Redirect: deniedPath,
	})
}

// AccessDenied handles GET /acceso-denegado/
func AccessDenied(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.MessageResponse{
		Message:  "You do not have permission to access this page.",
		Redirect: homePath,
	})
}

// NotFound answers unknown routes in the JSON envelope.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, codeNotFound, "not found")
}

// MethodNotAllowed answers known routes hit with the wrong method.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
}
