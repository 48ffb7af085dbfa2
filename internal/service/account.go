package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Shivanand-hulikatti/eventos-platform/internal/model"
	"github.com/Shivanand-hulikatti/eventos-platform/internal/policy"
	"github.com/Shivanand-hulikatti/eventos-platform/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// UserStore is the persistence the account service needs.
type UserStore interface {
	Create(ctx context.Context, u *model.User, perms model.PermissionSet) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	Permissions(ctx context.Context, userID string) (model.PermissionSet, error)
	UpdateProfile(ctx context.Context, userID string, p model.Profile) error
	SetRole(ctx context.Context, userID string, role model.Role, staff bool, perms model.PermissionSet) error
}

// SessionStore records live login sessions.
type SessionStore interface {
	Save(ctx context.Context, sessionID, userID string, ttl time.Duration) error
	Lookup(ctx context.Context, sessionID string) (string, error)
	Delete(ctx context.Context, sessionID string) error
}

// AccountService handles sign-up, sign-in and profiles.
type AccountService struct {
	users      UserStore
	sessions   SessionStore
	tokens     *TokenService
	bcryptCost int
}

// NewAccountService constructs an AccountService.
func NewAccountService(users UserStore, sessions SessionStore, tokens *TokenService, bcryptCost int) *AccountService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AccountService{
		users:      users,
		sessions:   sessions,
		tokens:     tokens,
		bcryptCost: bcryptCost,
	}
}

// Register creates a user, its profile and its role grants in one step,
// then signs the new user in.
func (s *AccountService) Register(ctx context.Context, req model.RegisterRequest) (*model.Session, error) {
	u, role, err := parseRegistration(req)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password1), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = string(hash)

	grants := policy.GrantsFor(role)
	u.IsStaff = grants.Staff
	if err := s.users.Create(ctx, &u, grants.Permissions); err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			return nil, &ValidationError{Fields: map[string]string{
				"username": "A user with that username already exists.",
			}}
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.startSession(ctx, &u)
}

// Login verifies credentials and opens a session.
func (s *AccountService) Login(ctx context.Context, req model.LoginRequest) (*model.Session, error) {
	username := normalizeUsername(req.Username)
	if username == "" || req.Password == "" {
		return nil, ErrInvalidCredentials
	}

	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.startSession(ctx, u)
}

func (s *AccountService) startSession(ctx context.Context, u *model.User) (*model.Session, error) {
	token, claims, err := s.tokens.Issue(u.ID, u.Username)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	if err := s.sessions.Save(ctx, claims.ID, u.ID, s.tokens.TTL()); err != nil {
		return nil, err
	}
	return &model.Session{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		User:      u,
	}, nil
}

// Logout ends the session behind token. Unknown or invalid tokens are
// already logged out.
func (s *AccountService) Logout(ctx context.Context, token string) error {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil
	}
	return s.sessions.Delete(ctx, claims.ID)
}

// Authenticate resolves a token to the principal it acts as. Grants are read
// fresh on every call so role changes take effect immediately.
func (s *AccountService) Authenticate(ctx context.Context, token string) (*model.Principal, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil, err
	}

	userID, err := s.sessions.Lookup(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if userID != claims.Subject {
		return nil, ErrInvalidToken
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	perms, err := s.users.Permissions(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &model.Principal{
		UserID:      u.ID,
		Username:    u.Username,
		Role:        u.Profile.Role,
		Permissions: perms,
	}, nil
}

// Profile returns the signed-in user's account and profile.
func (s *AccountService) Profile(ctx context.Context, p *model.Principal) (*model.User, error) {
	if !p.Authenticated() {
		return nil, loginRequired("You must log in to see your profile.")
	}
	return s.users.GetByID(ctx, p.UserID)
}

// UpdateProfile changes the signed-in user's phone and bio. Omitted fields
// keep their value.
func (s *AccountService) UpdateProfile(ctx context.Context, p *model.Principal, req model.ProfileUpdateRequest) (*model.User, error) {
	u, err := s.Profile(ctx, p)
	if err != nil {
		return nil, err
	}

	profile := u.Profile
	if req.Phone != nil {
		profile.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Bio != nil {
		profile.Bio = strings.TrimSpace(*req.Bio)
	}
	if utf8.RuneCountInString(profile.Phone) > maxPhoneLen {
		return nil, &ValidationError{Fields: map[string]string{
			"phone": "Ensure this value has at most 15 characters.",
		}}
	}

	if err := s.users.UpdateProfile(ctx, u.ID, profile); err != nil {
		return nil, err
	}
	u.Profile = profile
	return u, nil
}

// ChangeRole assigns a new role to a user, clearing prior grants and
// applying the new role's set. Only administrators may change roles.
func (s *AccountService) ChangeRole(ctx context.Context, p *model.Principal, userID string, req model.RoleChangeRequest) (*model.User, error) {
	if !p.Authenticated() {
		return nil, loginRequired("You must log in to manage users.")
	}
	if !policy.CanChangeRoles(p) {
		return nil, denied("Only administrators can change user roles.")
	}
	role, err := model.ParseRole(req.Role)
	if err != nil {
		return nil, &ValidationError{Fields: map[string]string{"role": "Select a valid choice."}}
	}

	grants := policy.GrantsFor(role)
	if err := s.users.SetRole(ctx, userID, role, grants.Staff, grants.Permissions); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, userID)
}
