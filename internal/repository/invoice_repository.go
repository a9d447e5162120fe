package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/rramosdev/shop-backoffice/internal/model"
)

// InvoiceRepo persists invoices scoped to a shop.
type InvoiceRepo struct{ DB *sql.DB }

func NewInvoiceRepo(db *sql.DB) *InvoiceRepo { return &InvoiceRepo{DB: db} }

func (r *InvoiceRepo) Create(ctx context.Context, inv *model.Invoice) error {
	if inv.ID == "" {
		inv.ID = uuid.NewString()
	}
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO invoices (id, shop_id, total) VALUES (?,?,?)",
		inv.ID, inv.ShopID, inv.Total)
	return err
}

func (r *InvoiceRepo) GetByID(ctx context.Context, id, shopID string) (*model.Invoice, error) {
	var inv model.Invoice
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,shop_id,total,created_at FROM invoices WHERE id=? AND shop_id=? LIMIT 1",
		id, shopID).Scan(&inv.ID, &inv.ShopID, &inv.Total, &inv.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *InvoiceRepo) ListByShop(ctx context.Context, shopID string, p Pagination) ([]model.Invoice, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,shop_id,total,created_at FROM invoices WHERE shop_id=? ORDER BY created_at ASC LIMIT ? OFFSET ?",
		shopID, p.Take, p.Skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Invoice
	for rows.Next() {
		var inv model.Invoice
		if err := rows.Scan(&inv.ID, &inv.ShopID, &inv.Total, &inv.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (r *InvoiceRepo) Update(ctx context.Context, inv *model.Invoice) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE invoices SET total=? WHERE id=? AND shop_id=?",
		inv.Total, inv.ID, inv.ShopID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *InvoiceRepo) Delete(ctx context.Context, id, shopID string) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM invoices WHERE id=? AND shop_id=?", id, shopID)
	if err != nil {
		return err
	}
	return requireRow(res)
}
