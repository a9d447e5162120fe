package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"github.com/rramosdev/shop-backoffice/internal/model"
)

// UserRepo persists users, including the session state on each row: the
// refresh_token column holds the SHA-256 digest of the user's current
// refresh token and is NULL exactly when no session is active.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,name,email,password_hash,role,active,refresh_token,created_at"

func scanUser(row *sql.Row) (*model.User, error) {
	var (
		u       model.User
		refresh sql.NullString
	)
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Active, &refresh, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if refresh.Valid {
		u.RefreshToken = &refresh.String
	}
	return &u, nil
}

// Create inserts a user with a fresh UUID. The caller supplies the password
// hash; plaintext never reaches this layer.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (id, name, email, password_hash, role, active) VALUES (?,?,?,?,?,?)",
		u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.Active)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrEmailExists
		}
		return err
	}
	return nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// List returns users ordered by creation time. When query is non-empty it
// filters on a name substring.
func (r *UserRepo) List(ctx context.Context, p Pagination, query string) ([]model.User, error) {
	q := "SELECT " + userColumns + " FROM users"
	args := []any{}
	if query != "" {
		q += " WHERE name LIKE ?"
		args = append(args, "%"+query+"%")
	}
	q += " ORDER BY created_at ASC LIMIT ? OFFSET ?"
	args = append(args, p.Take, p.Skip)

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var (
			u       model.User
			refresh sql.NullString
		)
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Active, &refresh, &u.CreatedAt); err != nil {
			return nil, err
		}
		if refresh.Valid {
			u.RefreshToken = &refresh.String
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Update writes the mutable profile fields.
func (r *UserRepo) Update(ctx context.Context, u *model.User) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET name=?, email=?, password_hash=?, role=?, active=? WHERE id=?",
		u.Name, strings.ToLower(strings.TrimSpace(u.Email)), u.PasswordHash, u.Role, u.Active, u.ID)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrEmailExists
		}
		return err
	}
	return requireRow(res)
}

// UpdatePassword replaces the password hash and drops any active session so
// outstanding refresh tokens stop working after a reset.
func (r *UserRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET password_hash=?, refresh_token=NULL WHERE id=?", passwordHash, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// SetRefreshToken unconditionally stores a new refresh-token hash (login).
func (r *UserRepo) SetRefreshToken(ctx context.Context, id, tokenHash string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET refresh_token=? WHERE id=?", tokenHash, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// RotateRefreshToken swaps oldHash for newHash in a single conditional
// UPDATE. When the stored hash no longer equals oldHash a concurrent
// rotation won the race and ErrStaleToken is returned.
func (r *UserRepo) RotateRefreshToken(ctx context.Context, id, oldHash, newHash string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET refresh_token=? WHERE id=? AND refresh_token=?", newHash, id, oldHash)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrStaleToken
	}
	return nil
}

// ClearRefreshToken ends the user's session (logout).
func (r *UserRepo) ClearRefreshToken(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET refresh_token=NULL WHERE id=?", id)
	return err
}

// Activate flips the account to active. Idempotent.
func (r *UserRepo) Activate(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET active=1 WHERE id=?", id)
	return err
}

// Delete removes the user row.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
