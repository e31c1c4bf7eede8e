package db

import (
	"context"
	"database/sql"
)

const schema = `
CREATE EXTENSION IF NOT EXISTS "pgcrypto";

CREATE TABLE IF NOT EXISTS users (
    user_id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
    email varchar(254) NOT NULL,
    password text NOT NULL,
    first_name varchar(30) NOT NULL DEFAULT '',
    sec_name varchar(30) NOT NULL DEFAULT '',
    profile_pic text,
    created_at timestamptz NOT NULL DEFAULT NOW(),
    updated_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS users_email_lower_unique
ON users (LOWER(email));

CREATE TABLE IF NOT EXISTS fav_shows (
    user_id uuid NOT NULL REFERENCES users(user_id),
    show_id text NOT NULL,
    show_type text NOT NULL,
    show_poster text NOT NULL,
    show_name text NOT NULL,
    created_at timestamptz NOT NULL DEFAULT NOW(),
    PRIMARY KEY (user_id, show_id, show_type)
);

CREATE TABLE IF NOT EXISTS later_shows (
    user_id uuid NOT NULL REFERENCES users(user_id),
    show_id text NOT NULL,
    show_type text NOT NULL,
    show_poster text NOT NULL,
    show_name text NOT NULL,
    created_at timestamptz NOT NULL DEFAULT NOW(),
    PRIMARY KEY (user_id, show_id, show_type)
);
`

// Migrate creates the schema if it does not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}
