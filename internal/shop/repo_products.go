package shop

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ProductRepo struct{ DB DB }

type ProductInput struct {
	Name        string
	Description string
	PriceCents  int
	Category    string
	Stock       int
}

// ProductPatch updates only the fields that are set; nil means keep.
type ProductPatch struct {
	Name        *string
	Description *string
	PriceCents  *int
	Category    *string
	Stock       *int
}

const productCols = `id, name, description, price_cents, category, stock, created_at, updated_at`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.PriceCents, &p.Category, &p.Stock, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *ProductRepo) Create(ctx context.Context, in ProductInput) (Product, error) {
	now := time.Now().UTC()
	p := Product{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		PriceCents:  in.PriceCents,
		Category:    in.Category,
		Stock:       in.Stock,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	_, err := r.DB.Exec(ctx, `
		INSERT INTO products(id, name, description, price_cents, category, stock, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.Name, p.Description, p.PriceCents, p.Category, p.Stock, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return Product{}, err
	}
	return p, nil
}

func (r *ProductRepo) Get(ctx context.Context, id string) (Product, error) {
	p, err := scanProduct(r.DB.QueryRow(ctx,
		`SELECT `+productCols+` FROM products WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, &ProductNotFoundError{ID: id}
	}
	if err != nil {
		return Product{}, err
	}
	return p, nil
}

// List returns one page of products in insertion order plus the total
// document count, so the handler can compute page math.
func (r *ProductRepo) List(ctx context.Context, page, limit int) ([]Product, int, error) {
	offset := (page - 1) * limit
	rows, err := r.DB.Query(ctx, `
		SELECT `+productCols+` FROM products
		ORDER BY created_at, id
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []Product{}
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.PriceCents, &p.Category, &p.Stock, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var count int
	if err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return nil, 0, err
	}
	return out, count, nil
}

func (r *ProductRepo) Update(ctx context.Context, id string, patch ProductPatch) (Product, error) {
	p, err := scanProduct(r.DB.QueryRow(ctx, `
		UPDATE products SET
			name        = COALESCE($2, name),
			description = COALESCE($3, description),
			price_cents = COALESCE($4, price_cents),
			category    = COALESCE($5, category),
			stock       = COALESCE($6, stock),
			updated_at  = now()
		WHERE id = $1
		RETURNING `+productCols,
		id, patch.Name, patch.Description, patch.PriceCents, patch.Category, patch.Stock,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, &ProductNotFoundError{ID: id}
	}
	if err != nil {
		return Product{}, err
	}
	return p, nil
}

func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return &ProductNotFoundError{ID: id}
	}
	return nil
}
