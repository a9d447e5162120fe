package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"github.com/rramosdev/shop-backoffice/internal/model"
)

// ProductRepo persists products scoped to a shop.
type ProductRepo struct{ DB *sql.DB }

func NewProductRepo(db *sql.DB) *ProductRepo { return &ProductRepo{DB: db} }

// CreateMany inserts a batch of products for one shop in a single statement.
func (r *ProductRepo) CreateMany(ctx context.Context, products []model.Product) error {
	if len(products) == 0 {
		return nil
	}
	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString("INSERT INTO products (id, shop_id, inventory_id, name, price) VALUES ")
	for i := range products {
		p := &products[i]
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("(?,?,?,?,?)")
		args = append(args, p.ID, p.ShopID, p.InventoryID, p.Name, p.Price)
	}
	_, err := r.DB.ExecContext(ctx, sb.String(), args...)
	return err
}

// GetByID fetches a product belonging to shopID.
func (r *ProductRepo) GetByID(ctx context.Context, id, shopID string) (*model.Product, error) {
	var (
		p   model.Product
		inv sql.NullString
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,shop_id,inventory_id,name,price,created_at FROM products WHERE id=? AND shop_id=? LIMIT 1",
		id, shopID).Scan(&p.ID, &p.ShopID, &inv, &p.Name, &p.Price, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if inv.Valid {
		p.InventoryID = &inv.String
	}
	return &p, nil
}

// ListByShop returns the shop's products ordered by creation time.
func (r *ProductRepo) ListByShop(ctx context.Context, shopID string, p Pagination) ([]model.Product, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,shop_id,inventory_id,name,price,created_at FROM products WHERE shop_id=? ORDER BY created_at ASC LIMIT ? OFFSET ?",
		shopID, p.Take, p.Skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		var (
			prod model.Product
			inv  sql.NullString
		)
		if err := rows.Scan(&prod.ID, &prod.ShopID, &inv, &prod.Name, &prod.Price, &prod.CreatedAt); err != nil {
			return nil, err
		}
		if inv.Valid {
			prod.InventoryID = &inv.String
		}
		products = append(products, prod)
	}
	return products, rows.Err()
}

// Update writes the mutable product fields.
func (r *ProductRepo) Update(ctx context.Context, p *model.Product) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE products SET name=?, price=?, inventory_id=? WHERE id=? AND shop_id=?",
		p.Name, p.Price, p.InventoryID, p.ID, p.ShopID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// Delete removes a product belonging to shopID.
func (r *ProductRepo) Delete(ctx context.Context, id, shopID string) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM products WHERE id=? AND shop_id=?", id, shopID)
	if err != nil {
		return err
	}
	return requireRow(res)
}
