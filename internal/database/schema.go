package database

import (
	"database/sql"
	"fmt"
)

const schemaSQL = `
CREATE EXTENSION IF NOT EXISTS "uuid-ossp";

CREATE TABLE IF NOT EXISTS regions (
    id UUID PRIMARY KEY,
    name TEXT UNIQUE NOT NULL,
    balance_income_uzs NUMERIC(18,2) NOT NULL DEFAULT 0,
    balance_income_usd NUMERIC(18,2) NOT NULL DEFAULT 0,
    balance_expense_uzs NUMERIC(18,2) NOT NULL DEFAULT 0,
    balance_expense_usd NUMERIC(18,2) NOT NULL DEFAULT 0,
    total_balance_uzs NUMERIC(18,2) NOT NULL DEFAULT 0,
    total_balance_usd NUMERIC(18,2) NOT NULL DEFAULT 0,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS orders (
    id UUID PRIMARY KEY,
    phone TEXT,
    from_region_id UUID REFERENCES regions(id) ON DELETE SET NULL,
    to_region_id UUID REFERENCES regions(id) ON DELETE SET NULL,
    income_uzs NUMERIC(18,2) NOT NULL DEFAULT 0,
    expense_uzs NUMERIC(18,2) NOT NULL DEFAULT 0,
    income_usd NUMERIC(18,2) NOT NULL DEFAULT 0,
    expense_usd NUMERIC(18,2) NOT NULL DEFAULT 0,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    is_deleted BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS users (
    id UUID PRIMARY KEY,
    username TEXT UNIQUE NOT NULL,
    phone TEXT UNIQUE NOT NULL,
    password_hash TEXT NOT NULL,
    role TEXT NOT NULL DEFAULT 'user',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS app_settings (
    id UUID PRIMARY KEY,
    key VARCHAR(100) UNIQUE NOT NULL,
    value TEXT,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_orders_from_region ON orders(from_region_id);
CREATE INDEX IF NOT EXISTS idx_orders_to_region ON orders(to_region_id);
CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at);
CREATE INDEX IF NOT EXISTS idx_orders_is_deleted ON orders(is_deleted);
`

func InitSchema(db *sql.DB) error {
	_, err := db.Exec(schemaSQL)
	if err != nil {
		return fmt.Errorf("failed to init schema: %w", err)
	}
	return nil
}
