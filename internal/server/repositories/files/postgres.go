package files

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vtumanov/filevault/internal/common"
	"github.com/vtumanov/filevault/internal/dbx"
	"github.com/vtumanov/filevault/internal/server/models"
)

// PostgresRepository implements file metadata storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const fileColumns = `id, user_id, name, type, parent_id, is_public, local_path, created_at`

func scanFile(row *sql.Row) (*models.File, error) {
	f := &models.File{}
	err := row.Scan(&f.ID, &f.UserID, &f.Name, &f.Type, &f.ParentID, &f.IsPublic, &f.LocalPath, &f.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return f, nil
}

// Create inserts a file entry and fills in the generated id and timestamp.
func (r *PostgresRepository) Create(ctx context.Context, file *models.File) (*models.File, error) {

	query :=
		`INSERT INTO files (user_id, name, type, parent_id, is_public, local_path)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		file.UserID, file.Name, file.Type, file.ParentID, file.IsPublic, file.LocalPath).
		Scan(&file.ID, &file.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return file, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.File, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE id = $1`
	return scanFile(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetByIDAndOwner(ctx context.Context, id, userID string) (*models.File, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE id = $1 AND user_id = $2`
	return scanFile(r.db.QueryRowContext(ctx, query, id, userID))
}

// List selects the owner's entries ordered by creation so pagination windows
// stay stable across pages. parentID == "" means no parent filter at all,
// which is a different query than parentID == "0" (top-level entries only).
func (r *PostgresRepository) List(ctx context.Context, userID, parentID string, offset, limit int) ([]*models.File, error) {

	query := `SELECT ` + fileColumns + ` FROM files WHERE user_id = $1`
	args := []any{userID}

	if parentID != "" {
		query += ` AND parent_id = $2`
		args = append(args, parentID)
	}
	query += fmt.Sprintf(` ORDER BY created_at, id OFFSET %d LIMIT %d`, offset, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.File
	for rows.Next() {
		f := &models.File{}
		if err := rows.Scan(&f.ID, &f.UserID, &f.Name, &f.Type, &f.ParentID, &f.IsPublic, &f.LocalPath, &f.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateVisibility flips is_public on the owner's entry and returns the
// updated row, or common.ErrorNotFound when no row matched.
func (r *PostgresRepository) UpdateVisibility(ctx context.Context, id, userID string, isPublic bool) (*models.File, error) {

	query :=
		`UPDATE files SET is_public = $3
		 WHERE id = $1 AND user_id = $2
		 RETURNING ` + fileColumns

	return scanFile(r.db.QueryRowContext(ctx, query, id, userID, isPublic))
}

// Count returns the total number of file entries.
func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM files`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
