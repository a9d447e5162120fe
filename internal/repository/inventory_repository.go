package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/rramosdev/shop-backoffice/internal/model"
)

// InventoryRepo persists inventories scoped to a shop.
type InventoryRepo struct{ DB *sql.DB }

func NewInventoryRepo(db *sql.DB) *InventoryRepo { return &InventoryRepo{DB: db} }

func (r *InventoryRepo) Create(ctx context.Context, inv *model.Inventory) error {
	if inv.ID == "" {
		inv.ID = uuid.NewString()
	}
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO inventories (id, shop_id, cost, subtotal, total) VALUES (?,?,?,?,?)",
		inv.ID, inv.ShopID, inv.Cost, inv.Subtotal, inv.Total)
	return err
}

func (r *InventoryRepo) GetByID(ctx context.Context, id, shopID string) (*model.Inventory, error) {
	var inv model.Inventory
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,shop_id,cost,subtotal,total,created_at FROM inventories WHERE id=? AND shop_id=? LIMIT 1",
		id, shopID).Scan(&inv.ID, &inv.ShopID, &inv.Cost, &inv.Subtotal, &inv.Total, &inv.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *InventoryRepo) ListByShop(ctx context.Context, shopID string, p Pagination) ([]model.Inventory, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,shop_id,cost,subtotal,total,created_at FROM inventories WHERE shop_id=? ORDER BY created_at ASC LIMIT ? OFFSET ?",
		shopID, p.Take, p.Skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Inventory
	for rows.Next() {
		var inv model.Inventory
		if err := rows.Scan(&inv.ID, &inv.ShopID, &inv.Cost, &inv.Subtotal, &inv.Total, &inv.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (r *InventoryRepo) Update(ctx context.Context, inv *model.Inventory) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE inventories SET cost=?, subtotal=?, total=? WHERE id=? AND shop_id=?",
		inv.Cost, inv.Subtotal, inv.Total, inv.ID, inv.ShopID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *InventoryRepo) Delete(ctx context.Context, id, shopID string) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM inventories WHERE id=? AND shop_id=?", id, shopID)
	if err != nil {
		return err
	}
	return requireRow(res)
}
