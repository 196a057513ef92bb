package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/Deek-011/formbot/internal/common/db"
	"github.com/Deek-011/formbot/internal/folder/domain"
)

var (
	ErrFolderNotFound = fmt.Errorf("folder: %w", db.ErrNoRecord)
	ErrFolderExists   = fmt.Errorf("folder name: %w", db.ErrDuplicate)
)

type Repository interface {
	Create(ctx context.Context, folder domain.Folder) error
	FindByID(ctx context.Context, id string) (domain.Folder, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Folder, error)
	Delete(ctx context.Context, id string) error
}

const foldersTable = "folders"

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) Create(ctx context.Context, folder domain.Folder) error {
	start := time.Now()
	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO folders (id, name, user_id, created_at) VALUES ($1, $2, $3, $4)`,
		folder.ID,
		folder.Name,
		folder.UserID,
		folder.CreatedAt,
	)
	if db.IsUniqueViolation(err) {
		db.MeasureQueryDuration("create folder", foldersTable, start)
		return ErrFolderExists
	}
	return db.HandleExecError(err, "create folder", foldersTable, start)
}

// FindByID treats a malformed id the same as a missing folder.
func (r *PgRepository) FindByID(ctx context.Context, id string) (domain.Folder, error) {
	if !db.IsUUID(id) {
		return domain.Folder{}, ErrFolderNotFound
	}

	start := time.Now()
	row := r.pool.QueryRow(
		ctx,
		`SELECT id, name, user_id, created_at FROM folders WHERE id = $1`,
		id,
	)

	var f domain.Folder
	err := row.Scan(&f.ID, &f.Name, &f.UserID, &f.CreatedAt)
	if err = db.HandleQueryError(err, ErrFolderNotFound, "find folder", foldersTable, start); err != nil {
		return domain.Folder{}, err
	}
	return f, nil
}

func (r *PgRepository) ListByUser(ctx context.Context, userID string) ([]domain.Folder, error) {
	start := time.Now()
	rows, err := r.pool.Query(
		ctx,
		`SELECT id, name, user_id, created_at
		 FROM folders
		 WHERE user_id = $1
		 ORDER BY created_at ASC, id ASC`,
		userID,
	)
	if err != nil {
		return nil, db.HandleExecError(err, "list folders", foldersTable, start)
	}
	defer rows.Close()

	folders := make([]domain.Folder, 0)
	for rows.Next() {
		var f domain.Folder
		if err := rows.Scan(&f.ID, &f.Name, &f.UserID, &f.CreatedAt); err != nil {
			return nil, db.HandleExecError(err, "scan folder", foldersTable, start)
		}
		folders = append(folders, f)
	}
	if err := rows.Err(); err != nil {
		return nil, db.HandleExecError(err, "list folders", foldersTable, start)
	}

	db.MeasureQueryDuration("list folders", foldersTable, start)
	return folders, nil
}

// Delete removes the folder; its forms go with it through ON DELETE CASCADE.
func (r *PgRepository) Delete(ctx context.Context, id string) error {
	start := time.Now()
	tag, err := r.pool.Exec(ctx, `DELETE FROM folders WHERE id = $1`, id)
	if err := db.HandleExecError(err, "delete folder", foldersTable, start); err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrFolderNotFound
	}
	return nil
}
