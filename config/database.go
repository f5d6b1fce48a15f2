package config

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

func InitDB(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return db, nil
}

func RunMigrations(db *sql.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			username VARCHAR(255) UNIQUE NOT NULL,
			email VARCHAR(255) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			created_at TIMESTAMPTZ DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS categories (
			id BIGSERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			type SMALLINT NOT NULL CHECK (type IN (1, 2)),
			color VARCHAR(32) NOT NULL DEFAULT '#000000',
			icon VARCHAR(64) NOT NULL DEFAULT '',
			user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE
		)`,

		// category_id is a plain FK (NO ACTION): the in-use guard is
		// enforced in CategoryService.Delete, and NO ACTION lets a user
		// cascade remove categories and transactions in one statement.
		`CREATE TABLE IF NOT EXISTS transactions (
			id BIGSERIAL PRIMARY KEY,
			amount NUMERIC(18,2) NOT NULL CHECK (amount > 0),
			description TEXT NOT NULL DEFAULT '',
			date TIMESTAMPTZ NOT NULL,
			type SMALLINT NOT NULL CHECK (type IN (1, 2)),
			category_id BIGINT NOT NULL REFERENCES categories(id),
			user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE
		)`,

		`CREATE TABLE IF NOT EXISTS budgets (
			id BIGSERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			amount NUMERIC(18,2) NOT NULL CHECK (amount > 0),
			start_date TIMESTAMPTZ NOT NULL,
			end_date TIMESTAMPTZ NOT NULL,
			category_id BIGINT NOT NULL REFERENCES categories(id) ON DELETE CASCADE,
			user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE
		)`,

		`CREATE INDEX IF NOT EXISTS idx_categories_user_id ON categories(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_user_id ON transactions(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_user_category_date ON transactions(user_id, category_id, date)`,
		`CREATE INDEX IF NOT EXISTS idx_budgets_user_id ON budgets(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_budgets_category_id ON budgets(category_id)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}

	return nil
}
