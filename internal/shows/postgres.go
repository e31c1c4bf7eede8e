package shows

import (
	"context"
	"fmt"

	"github.com/abdelrhman-sys/MoviX-API/internal/db"
)

type PostgresRepository struct {
	db    *db.DB
	table string
}

func NewPostgresRepository(db *db.DB, c Collection) (*PostgresRepository, error) {
	table, err := c.table()
	if err != nil {
		return nil, err
	}
	return &PostgresRepository{db: db, table: table}, nil
}

func (r *PostgresRepository) Add(ctx context.Context, userID string, e Entry) error {
	_, err := r.db.Conn(ctx).ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (user_id, show_id, show_type, show_poster, show_name)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, show_id, show_type) DO NOTHING
	`, r.table),
		userID,
		e.ShowID,
		e.ShowType,
		e.ShowPoster,
		e.ShowName,
	)
	return err
}

func (r *PostgresRepository) Remove(ctx context.Context, userID, showID, showType string) error {
	_, err := r.db.Conn(ctx).ExecContext(ctx, fmt.Sprintf(`
		DELETE FROM %s
		WHERE user_id = $1 AND show_id = $2 AND show_type = $3
	`, r.table), userID, showID, showType)
	return err
}

func (r *PostgresRepository) List(ctx context.Context, userID string) ([]Entry, error) {
	rows, err := r.db.Conn(ctx).QueryContext(ctx, fmt.Sprintf(`
		SELECT show_id, show_type, show_poster, show_name
		FROM %s
		WHERE user_id = $1
		ORDER BY created_at
	`, r.table), userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ShowID, &e.ShowType, &e.ShowPoster, &e.ShowName); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *PostgresRepository) DeleteAll(ctx context.Context, userID string) error {
	_, err := r.db.Conn(ctx).ExecContext(ctx, fmt.Sprintf(`
		DELETE FROM %s
		WHERE user_id = $1
	`, r.table), userID)
	return err
}
