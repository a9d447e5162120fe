package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"github.com/rramosdev/shop-backoffice/internal/model"
)

// ShopRepo persists shops. Every read is scoped to the owning user so one
// tenant can never see or mutate another tenant's shops.
type ShopRepo struct{ DB *sql.DB }

func NewShopRepo(db *sql.DB) *ShopRepo { return &ShopRepo{DB: db} }

// Create inserts a shop for the given owner.
func (r *ShopRepo) Create(ctx context.Context, s *model.Shop) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO shops (id, user_id, name) VALUES (?,?,?)",
		s.ID, s.UserID, s.Name)
	if err != nil && strings.Contains(strings.ToLower(err.Error()), "1062") {
		return ErrConflict
	}
	return err
}

// GetByIDAndOwner fetches a shop only when it belongs to ownerID.
func (r *ShopRepo) GetByIDAndOwner(ctx context.Context, id, ownerID string) (*model.Shop, error) {
	var s model.Shop
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,user_id,name,created_at FROM shops WHERE id=? AND user_id=? LIMIT 1",
		id, ownerID).Scan(&s.ID, &s.UserID, &s.Name, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListByOwner returns the owner's shops ordered by creation time.
func (r *ShopRepo) ListByOwner(ctx context.Context, ownerID string, p Pagination) ([]model.Shop, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,user_id,name,created_at FROM shops WHERE user_id=? ORDER BY created_at ASC LIMIT ? OFFSET ?",
		ownerID, p.Take, p.Skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shops []model.Shop
	for rows.Next() {
		var s model.Shop
		if err := rows.Scan(&s.ID, &s.UserID, &s.Name, &s.CreatedAt); err != nil {
			return nil, err
		}
		shops = append(shops, s)
	}
	return shops, rows.Err()
}

// UpdateName renames a shop owned by ownerID.
func (r *ShopRepo) UpdateName(ctx context.Context, id, ownerID, name string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE shops SET name=? WHERE id=? AND user_id=?", name, id, ownerID)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrConflict
		}
		return err
	}
	return requireRow(res)
}

// Delete removes a shop owned by ownerID. Dependent rows are removed by
// ON DELETE CASCADE.
func (r *ShopRepo) Delete(ctx context.Context, id, ownerID string) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM shops WHERE id=? AND user_id=?", id, ownerID)
	if err != nil {
		return err
	}
	return requireRow(res)
}
