package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sumeshhesums/ml-deployment-platform/internal/app_errors"
	"github.com/sumeshhesums/ml-deployment-platform/internal/models"
)

type ModelPostgres struct {
	db *pgxpool.Pool
}

func NewModelPostgres(db *pgxpool.Pool) *ModelPostgres {
	return &ModelPostgres{db: db}
}

const modelColumns = `id, name, description, framework, model_type, version, object_key,
	file_size, input_schema, output_schema, is_active, usage_count, owner_id, created_at, updated_at`

func scanModel(row pgx.Row) (*models.MLModel, error) {
	var m models.MLModel
	err := row.Scan(
		&m.ID,
		&m.Name,
		&m.Description,
		&m.Framework,
		&m.ModelType,
		&m.Version,
		&m.ObjectKey,
		&m.FileSize,
		&m.InputSchema,
		&m.OutputSchema,
		&m.IsActive,
		&m.UsageCount,
		&m.OwnerID,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrModelNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *ModelPostgres) Create(ctx context.Context, m models.MLModel) (*models.MLModel, error) {
	query := `
		INSERT INTO ml_models (name, description, framework, model_type, version,
			object_key, file_size, input_schema, output_schema, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + modelColumns
	row := r.db.QueryRow(ctx, query,
		m.Name, m.Description, m.Framework, m.ModelType, m.Version,
		m.ObjectKey, m.FileSize, m.InputSchema, m.OutputSchema, m.OwnerID)
	created, err := scanModel(row)
	if err != nil {
		return nil, fmt.Errorf("failed to insert model: %w", err)
	}
	return created, nil
}

func (r *ModelPostgres) ByID(ctx context.Context, id uuid.UUID) (*models.MLModel, error) {
	query := `SELECT ` + modelColumns + ` FROM ml_models WHERE id = $1`
	return scanModel(r.db.QueryRow(ctx, query, id))
}

// ByIDForOwner resolves a model only when the given user owns it, so a
// foreign model id behaves exactly like a missing one.
func (r *ModelPostgres) ByIDForOwner(ctx context.Context, id, ownerID uuid.UUID) (*models.MLModel, error) {
	query := `SELECT ` + modelColumns + ` FROM ml_models WHERE id = $1 AND owner_id = $2`
	return scanModel(r.db.QueryRow(ctx, query, id, ownerID))
}

func (r *ModelPostgres) ListByOwner(ctx context.Context, ownerID uuid.UUID, offset, limit int) ([]models.MLModel, error) {
	query := `
		SELECT ` + modelColumns + `
		FROM ml_models
		WHERE owner_id = $1
		ORDER BY created_at DESC
		OFFSET $2 LIMIT $3`
	rows, err := r.db.Query(ctx, query, ownerID, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.MLModel
	for rows.Next() {
		m, err := scanModel(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *m)
	}
	return result, rows.Err()
}

func (r *ModelPostgres) Update(ctx context.Context, id, ownerID uuid.UUID, upd models.ModelUpdate) (*models.MLModel, error) {
	query := `
		UPDATE ml_models SET
			name = COALESCE($3, name),
			description = COALESCE($4, description),
			version = COALESCE($5, version),
			is_active = COALESCE($6, is_active),
			updated_at = now()
		WHERE id = $1 AND owner_id = $2
		RETURNING ` + modelColumns
	row := r.db.QueryRow(ctx, query, id, ownerID, upd.Name, upd.Description, upd.Version, upd.IsActive)
	return scanModel(row)
}

func (r *ModelPostgres) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM ml_models WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return app_errors.ErrModelNotFound
	}
	return nil
}

func (r *ModelPostgres) IncrementUsage(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `UPDATE ml_models SET usage_count = usage_count + 1 WHERE id = $1`, id)
	return err
}

func (r *ModelPostgres) CountModels(ctx context.Context) (total, totalPredictions int64, err error) {
	query := `SELECT count(*), COALESCE(sum(usage_count), 0) FROM ml_models`
	err = r.db.QueryRow(ctx, query).Scan(&total, &totalPredictions)
	return total, totalPredictions, err
}
