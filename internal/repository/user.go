package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Shivanand-hulikatti/eventos-platform/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `
	u.id, u.username, u.first_name, u.last_name, u.email, u.password_hash,
	u.is_staff, u.date_joined, p.role, p.phone, p.bio`

// UserRepository handles persistence for users, profiles and grants.
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository constructs a UserRepository.
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a user together with its profile and permission grants in a
// single transaction. A user row never exists without its profile.
func (r *UserRepository) Create(ctx context.Context, u *model.User, perms model.PermissionSet) error {
	u.ID = uuid.New().String()
	u.DateJoined = time.Now().UTC()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	_, err = tx.Exec(ctx,
		`INSERT INTO users (id, username, first_name, last_name, email, password_hash, is_staff, date_joined)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		u.ID, u.Username, u.FirstName, u.LastName, u.Email, u.PasswordHash, u.IsStaff, u.DateJoined,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrUsernameTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO profiles (user_id, role, phone, bio) VALUES ($1, $2, $3, $4)`,
		u.ID, string(u.Profile.Role), u.Profile.Phone, u.Profile.Bio,
	)
	if err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}

	if err := replacePermissions(ctx, tx, u.ID, perms); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// GetByID returns a user with its profile, or ErrNotFound.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	return r.getOne(ctx, `WHERE u.id = $1`, id)
}

// GetByUsername returns a user with its profile, or ErrNotFound.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.getOne(ctx, `WHERE u.username = $1`, username)
}

func (r *UserRepository) getOne(ctx context.Context, where string, arg any) (*model.User, error) {
	var (
		u    model.User
		role string
	)
	err := r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users u JOIN profiles p ON p.user_id = u.id `+where,
		arg,
	).Scan(
		&u.ID, &u.Username, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash,
		&u.IsStaff, &u.DateJoined, &role, &u.Profile.Phone, &u.Profile.Bio,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	u.Profile.Role = model.Role(role)
	return &u, nil
}

// Permissions returns the grants held by a user.
func (r *UserRepository) Permissions(ctx context.Context, userID string) (model.PermissionSet, error) {
	if !validID(userID) {
		return model.NewPermissionSet(), nil
	}
	rows, err := r.db.Query(ctx,
		`SELECT codename FROM user_permissions WHERE user_id = $1`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list permissions: %w", err)
	}
	codes, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan permission: %w", err)
	}
	perms := make(model.PermissionSet, len(codes))
	for _, c := range codes {
		perms[model.Permission(c)] = struct{}{}
	}
	return perms, nil
}

// UpdateProfile overwrites a user's phone and bio.
func (r *UserRepository) UpdateProfile(ctx context.Context, userID string, p model.Profile) error {
	if !validID(userID) {
		return ErrNotFound
	}
	tag, err := r.db.Exec(ctx,
		`UPDATE profiles SET phone = $2, bio = $3 WHERE user_id = $1`,
		userID, p.Phone, p.Bio,
	)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetRole changes a user's role, staff flag and grants atomically. Prior
// grants are cleared before the new set is written.
func (r *UserRepository) SetRole(ctx context.Context, userID string, role model.Role, staff bool, perms model.PermissionSet) error {
	if !validID(userID) {
		return ErrNotFound
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	tag, err := tx.Exec(ctx, `UPDATE profiles SET role = $2 WHERE user_id = $1`, userID, string(role))
	if err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	if _, err := tx.Exec(ctx, `UPDATE users SET is_staff = $2 WHERE id = $1`, userID, staff); err != nil {
		return fmt.Errorf("update staff flag: %w", err)
	}
	if err := replacePermissions(ctx, tx, userID, perms); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func replacePermissions(ctx context.Context, q querier, userID string, perms model.PermissionSet) error {
	if _, err := q.Exec(ctx, `DELETE FROM user_permissions WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("clear permissions: %w", err)
	}
	for _, p := range perms.Sorted() {
		if _, err := q.Exec(ctx,
			`INSERT INTO user_permissions (user_id, codename) VALUES ($1, $2)`,
			userID, string(p),
		); err != nil {
			return fmt.Errorf("grant %s: %w", p, err)
		}
	}
	return nil
}
