package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upOrdersTables, downOrdersTables)
}

func upOrdersTables(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
CREATE TABLE orders (
    id BIGSERIAL PRIMARY KEY,
    submitted_at BIGINT NOT NULL,
    table_number INT NOT NULL,
    user_agent TEXT,
    user_id BIGINT,
    comment TEXT,
    total_price DOUBLE PRECISION NOT NULL DEFAULT 0,
    status VARCHAR(32) NOT NULL DEFAULT 'pending',
    created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE order_items (
    id BIGSERIAL PRIMARY KEY,
    order_id BIGINT NOT NULL REFERENCES orders (id),
    product_id INT NOT NULL,
    name TEXT NOT NULL,
    category VARCHAR(32) NOT NULL,
    price DOUBLE PRECISION NOT NULL,
    quantity INT NOT NULL
);

CREATE INDEX idx_orders_submitted_at ON orders (submitted_at);
CREATE INDEX idx_orders_table_number ON orders (table_number);
CREATE INDEX idx_order_items_order_id ON order_items (order_id);
`)
	return err
}

func downOrdersTables(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
DROP TABLE order_items;
DROP TABLE orders;
`)
	return err
}
