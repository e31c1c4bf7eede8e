package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/abdelrhman-sys/MoviX-API/internal/db"

	"github.com/google/uuid"
)

const userColumns = `user_id, email, password, first_name, sec_name, profile_pic`

type PostgresRepository struct {
	db *db.DB
}

func NewPostgresRepository(db *db.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*User, error) {
	// session payloads are opaque to Postgres; reject garbage before it reaches the uuid cast
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}

	row := r.db.Conn(ctx).QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE user_id = $1
	`, id)

	return scanUser(row)
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	row := r.db.Conn(ctx).QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE LOWER(email) = LOWER($1)
	`, email)

	return scanUser(row)
}

func (r *PostgresRepository) Create(ctx context.Context, u NewUser) (*User, error) {
	if len(u.Email) > MaxEmailLength {
		return nil, ErrEmailTooLong
	}

	row := r.db.Conn(ctx).QueryRowContext(ctx, `
		INSERT INTO users (email, password, first_name, sec_name, profile_pic)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+userColumns,
		u.Email,
		u.PasswordHash,
		u.FirstName,
		u.SecName,
		nullString(u.ProfilePic),
	)

	created, err := scanUser(row)
	if err != nil {
		return nil, classify(err)
	}
	return created, nil
}

// UpdateProfile writes exactly the non-nil columns of patch in one statement.
// An over-long email is refused up front so 22001 only ever means a name.
func (r *PostgresRepository) UpdateProfile(ctx context.Context, id string, patch ProfilePatch) (*User, error) {
	if patch.Email != nil && len(*patch.Email) > MaxEmailLength {
		return nil, ErrEmailTooLong
	}

	var (
		sets []string
		args []any
	)

	set := func(column string, value *string) {
		if value == nil {
			return
		}
		args = append(args, *value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	set("first_name", patch.FirstName)
	set("sec_name", patch.SecName)
	set("email", patch.Email)

	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE users
		SET %s
		WHERE user_id = $%d
		RETURNING %s
	`, strings.Join(sets, ", "), len(args), userColumns)

	updated, err := scanUser(r.db.Conn(ctx).QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, classify(err)
	}
	return updated, nil
}

func (r *PostgresRepository) UpdateProfilePic(ctx context.Context, id string, path string) (string, error) {
	var stored string
	err := r.db.Conn(ctx).QueryRowContext(ctx, `
		UPDATE users
		SET profile_pic = $1, updated_at = NOW()
		WHERE user_id = $2
		RETURNING profile_pic
	`, path, id).Scan(&stored)

	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return stored, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.Conn(ctx).ExecContext(ctx, `
		DELETE FROM users
		WHERE user_id = $1
	`, id)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanUser(row *sql.Row) (*User, error) {
	var (
		u   User
		pic sql.NullString
	)

	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.SecName, &pic)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if pic.Valid {
		u.ProfilePic = &pic.String
	}
	return &u, nil
}

func classify(err error) error {
	switch {
	case db.IsUniqueViolation(err):
		return fmt.Errorf("%w: %v", ErrEmailTaken, err)
	case db.IsValueTooLong(err):
		return fmt.Errorf("%w: %v", ErrValueTooLong, err)
	default:
		return err
	}
}

func nullString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
