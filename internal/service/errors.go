package service

import (
	"errors"
	"sort"
	"strings"
)

// ErrInvalidCredentials is returned for a bad username/password pair.
var ErrInvalidCredentials = errors.New("invalid username or password")

// ErrInvalidToken is returned for tokens that fail validation or whose
// session has ended.
var ErrInvalidToken = errors.New("invalid or expired token")

// ErrPageNotFound is returned for a listing page outside the valid range.
var ErrPageNotFound = errors.New("page not found")

// AccessError is an authorization denial. It is an expected outcome that
// handlers route to the denial response.
type AccessError struct {
	Message string
	// LoginRequired is set when the caller is anonymous and signing in
	// might grant access.
	LoginRequired bool
}

func (e *AccessError) Error() string {
	return e.Message
}

func denied(msg string) error {
	return &AccessError{Message: msg}
}

func loginRequired(msg string) error {
	return &AccessError{Message: msg, LoginRequired: true}
}

// ValidationError carries field-level messages for a rejected form.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// fieldErrors accumulates messages, keeping the first per field.
type fieldErrors map[string]string

func (f fieldErrors) add(field, msg string) {
	if _, ok := f[field]; !ok {
		f[field] = msg
	}
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return &ValidationError{Fields: map[string]string(f)}
}
