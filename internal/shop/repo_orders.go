package shop

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type OrderRepo struct{ DB DB }

// Place creates an order for userID and decrements stock, all in one
// transaction. Every referenced product row is locked (FOR UPDATE) before
// anything is written, so two concurrent placements against the same
// product serialize instead of double-spending the same stock value.
// Any failing line item rolls back the whole placement.
func (r *OrderRepo) Place(ctx context.Context, userID string, items []OrderItem) (Order, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return Order{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// validation pass, under row locks
	for _, it := range items {
		var name string
		var stock int
		err := tx.QueryRow(ctx,
			`SELECT name, stock FROM products WHERE id = $1 FOR UPDATE`,
			it.ProductID,
		).Scan(&name, &stock)
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, &ProductNotFoundError{ID: it.ProductID}
		}
		if err != nil {
			return Order{}, err
		}
		if stock < it.Quantity {
			return Order{}, &InsufficientStockError{
				ProductName: name,
				Available:   stock,
				Requested:   it.Quantity,
			}
		}
	}

	o := Order{
		ID:        uuid.NewString(),
		UserID:    userID,
		Status:    DefaultOrderStatus,
		Items:     items,
		CreatedAt: time.Now().UTC(),
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO orders(id, user_id, status, created_at)
		VALUES ($1, $2, $3, $4)`,
		o.ID, o.UserID, o.Status, o.CreatedAt,
	)
	if err != nil {
		return Order{}, err
	}

	// commit pass: items verbatim, stock decremented exactly once each
	for _, it := range items {
		if _, err := tx.Exec(ctx, `
			INSERT INTO order_items(order_id, product_id, quantity)
			VALUES ($1, $2, $3)`,
			o.ID, it.ProductID, it.Quantity,
		); err != nil {
			return Order{}, err
		}
		ct, err := tx.Exec(ctx, `
			UPDATE products SET stock = stock - $2, updated_at = now()
			WHERE id = $1`,
			it.ProductID, it.Quantity,
		)
		if err != nil {
			return Order{}, err
		}
		if ct.RowsAffected() != 1 {
			// the row is locked above; hitting this means the world broke
			return Order{}, fmt.Errorf("stock update affected %d rows for product %s", ct.RowsAffected(), it.ProductID)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Order{}, err
	}
	return o, nil
}

// ListByUser returns the caller's orders newest-first, each line item
// joined against the current product record.
func (r *OrderRepo) ListByUser(ctx context.Context, userID string) ([]OrderDetail, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT o.id, o.status, o.created_at, i.quantity,
		       p.id, p.name, p.description, p.price_cents, p.category, p.stock, p.created_at, p.updated_at
		FROM orders o
		JOIN order_items i ON i.order_id = o.id
		LEFT JOIN products p ON p.id = i.product_id
		WHERE o.user_id = $1
		ORDER BY o.created_at DESC, o.id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []OrderDetail{}
	index := map[string]int{}
	for rows.Next() {
		var (
			orderID   string
			status    string
			createdAt time.Time
			qty       int

			pid, pname, pdesc, pcat *string
			pprice, pstock          *int
			pcreated, pupdated      *time.Time
		)
		if err := rows.Scan(&orderID, &status, &createdAt, &qty,
			&pid, &pname, &pdesc, &pprice, &pcat, &pstock, &pcreated, &pupdated); err != nil {
			return nil, err
		}

		i, ok := index[orderID]
		if !ok {
			out = append(out, OrderDetail{
				ID:        orderID,
				UserID:    userID,
				Status:    status,
				Items:     []OrderItemDetail{},
				CreatedAt: createdAt,
			})
			i = len(out) - 1
			index[orderID] = i
		}

		item := OrderItemDetail{Quantity: qty}
		if pid != nil {
			item.Product = &Product{
				ID:          *pid,
				Name:        *pname,
				Description: *pdesc,
				PriceCents:  *pprice,
				Category:    *pcat,
				Stock:       *pstock,
				CreatedAt:   *pcreated,
				UpdatedAt:   *pupdated,
			}
		}
		out[i].Items = append(out[i].Items, item)
	}
	return out, rows.Err()
}

// UpdateStatus overwrites the status label. Any string goes; the set of
// meaningful labels is a caller-side convention.
func (r *OrderRepo) UpdateStatus(ctx context.Context, orderID, status string) (Order, error) {
	var o Order
	err := r.DB.QueryRow(ctx, `
		UPDATE orders SET status = $2 WHERE id = $1
		RETURNING id, user_id, status, created_at`,
		orderID, status,
	).Scan(&o.ID, &o.UserID, &o.Status, &o.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, ErrOrderNotFound
	}
	if err != nil {
		return Order{}, err
	}

	rows, err := r.DB.Query(ctx,
		`SELECT product_id, quantity FROM order_items WHERE order_id = $1`, orderID)
	if err != nil {
		return Order{}, err
	}
	defer rows.Close()

	o.Items = []OrderItem{}
	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(&it.ProductID, &it.Quantity); err != nil {
			return Order{}, err
		}
		o.Items = append(o.Items, it)
	}
	return o, rows.Err()
}
