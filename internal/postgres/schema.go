package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            uuid PRIMARY KEY,
		name          text NOT NULL,
		email         text NOT NULL UNIQUE,
		password_hash text NOT NULL,
		created_at    timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id          uuid PRIMARY KEY,
		name        text NOT NULL,
		description text NOT NULL DEFAULT '',
		price_cents int  NOT NULL DEFAULT 0,
		category    text NOT NULL DEFAULT '',
		stock       int  NOT NULL DEFAULT 0 CHECK (stock >= 0),
		created_at  timestamptz NOT NULL DEFAULT now(),
		updated_at  timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id         uuid PRIMARY KEY,
		user_id    uuid NOT NULL REFERENCES users(id),
		status     text NOT NULL DEFAULT 'Pending',
		created_at timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		order_id   uuid NOT NULL REFERENCES orders(id),
		product_id uuid NOT NULL,
		quantity   int  NOT NULL CHECK (quantity > 0)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)`,
}

// EnsureSchema bootstraps the tables on startup. There is no migration
// tooling here; additive changes go into the statements above.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
