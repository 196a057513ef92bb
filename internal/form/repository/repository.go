package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/Deek-011/formbot/internal/common/db"
	"github.com/Deek-011/formbot/internal/form/domain"
)

var ErrFormNotFound = fmt.Errorf("form: %w", db.ErrNoRecord)

type Repository interface {
	Create(ctx context.Context, form domain.Form) error
	FindByID(ctx context.Context, id string) (domain.Form, error)
	ListByFolder(ctx context.Context, folderID string) ([]domain.Form, error)
	Delete(ctx context.Context, id string) error
}

const formsTable = "forms"

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) Create(ctx context.Context, form domain.Form) error {
	fields, err := encodeFields(form.Fields)
	if err != nil {
		return err
	}

	start := time.Now()
	_, err = r.pool.Exec(
		ctx,
		`INSERT INTO forms (id, name, fields, user_id, folder_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		form.ID,
		form.Name,
		fields,
		form.UserID,
		form.FolderID,
		form.CreatedAt,
	)
	return db.HandleExecError(err, "create form", formsTable, start)
}

func (r *PgRepository) FindByID(ctx context.Context, id string) (domain.Form, error) {
	if !db.IsUUID(id) {
		return domain.Form{}, ErrFormNotFound
	}

	start := time.Now()
	row := r.pool.QueryRow(
		ctx,
		`SELECT id, name, fields, user_id, folder_id, created_at FROM forms WHERE id = $1`,
		id,
	)

	form, err := scanForm(row)
	if err = db.HandleQueryError(err, ErrFormNotFound, "find form", formsTable, start); err != nil {
		return domain.Form{}, err
	}
	return form, nil
}

func (r *PgRepository) ListByFolder(ctx context.Context, folderID string) ([]domain.Form, error) {
	start := time.Now()
	rows, err := r.pool.Query(
		ctx,
		`SELECT id, name, fields, user_id, folder_id, created_at
		 FROM forms
		 WHERE folder_id = $1
		 ORDER BY created_at ASC, id ASC`,
		folderID,
	)
	if err != nil {
		return nil, db.HandleExecError(err, "list forms", formsTable, start)
	}
	defer rows.Close()

	forms := make([]domain.Form, 0)
	for rows.Next() {
		form, err := scanForm(rows)
		if err != nil {
			return nil, db.HandleExecError(err, "scan form", formsTable, start)
		}
		forms = append(forms, form)
	}
	if err := rows.Err(); err != nil {
		return nil, db.HandleExecError(err, "list forms", formsTable, start)
	}

	db.MeasureQueryDuration("list forms", formsTable, start)
	return forms, nil
}

func (r *PgRepository) Delete(ctx context.Context, id string) error {
	start := time.Now()
	tag, err := r.pool.Exec(ctx, `DELETE FROM forms WHERE id = $1`, id)
	if err := db.HandleExecError(err, "delete form", formsTable, start); err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrFormNotFound
	}
	return nil
}

func scanForm(row pgx.Row) (domain.Form, error) {
	var (
		form domain.Form
		raw  []byte
	)
	if err := row.Scan(&form.ID, &form.Name, &raw, &form.UserID, &form.FolderID, &form.CreatedAt); err != nil {
		return domain.Form{}, err
	}
	fields, err := decodeFields(raw)
	if err != nil {
		return domain.Form{}, err
	}
	form.Fields = fields
	return form, nil
}

func encodeFields(fields []domain.Field) ([]byte, error) {
	if fields == nil {
		fields = []domain.Field{}
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("encode form fields: %w", err)
	}
	return data, nil
}

func decodeFields(raw []byte) ([]domain.Field, error) {
	fields := make([]domain.Field, 0)
	if len(raw) == 0 {
		return fields, nil
	}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("decode form fields: %w", err)
	}
	return fields, nil
}
