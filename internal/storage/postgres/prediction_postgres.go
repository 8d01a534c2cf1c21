package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sumeshhesums/ml-deployment-platform/internal/models"
)

type PredictionPostgres struct {
	db *pgxpool.Pool
}

func NewPredictionPostgres(db *pgxpool.Pool) *PredictionPostgres {
	return &PredictionPostgres{db: db}
}

const predictionColumns = `id, model_id, user_id, input_data, output_data, latency, status, error_message, created_at`

func scanPrediction(row pgx.Row) (*models.Prediction, error) {
	var p models.Prediction
	err := row.Scan(
		&p.ID,
		&p.ModelID,
		&p.UserID,
		&p.InputData,
		&p.OutputData,
		&p.Latency,
		&p.Status,
		&p.ErrorMessage,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PredictionPostgres) Create(ctx context.Context, p models.Prediction) (*models.Prediction, error) {
	query := `
		INSERT INTO predictions (model_id, user_id, input_data, output_data, latency, status, error_message)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + predictionColumns
	row := r.db.QueryRow(ctx, query,
		p.ModelID, p.UserID, p.InputData, p.OutputData, p.Latency, p.Status, p.ErrorMessage)
	return scanPrediction(row)
}

func (r *PredictionPostgres) ListByModel(ctx context.Context, modelID uuid.UUID, offset, limit int) ([]models.Prediction, error) {
	query := `
		SELECT ` + predictionColumns + `
		FROM predictions
		WHERE model_id = $1
		ORDER BY created_at DESC
		OFFSET $2 LIMIT $3`
	rows, err := r.db.Query(ctx, query, modelID, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.Prediction
	for rows.Next() {
		p, err := scanPrediction(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	return result, rows.Err()
}

// DailyCount is one day's worth of predictions in the analytics window.
type DailyCount struct {
	Day   string
	Count int64
}

func (r *PredictionPostgres) AnalyticsSince(ctx context.Context, since time.Time) (daily []DailyCount, avgLatency float64, statusCounts map[string]int64, err error) {
	rows, err := r.db.Query(ctx, `
		SELECT to_char(created_at, 'YYYY-MM-DD'), count(*)
		FROM predictions
		WHERE created_at >= $1
		GROUP BY 1
		ORDER BY 1`, since)
	if err != nil {
		return nil, 0, nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var d DailyCount
		if err = rows.Scan(&d.Day, &d.Count); err != nil {
			return nil, 0, nil, err
		}
		daily = append(daily, d)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, nil, err
	}

	err = r.db.QueryRow(ctx,
		`SELECT COALESCE(avg(latency), 0) FROM predictions WHERE created_at >= $1`, since).
		Scan(&avgLatency)
	if err != nil {
		return nil, 0, nil, err
	}

	statusRows, err := r.db.Query(ctx, `
		SELECT status, count(*)
		FROM predictions
		WHERE created_at >= $1
		GROUP BY status`, since)
	if err != nil {
		return nil, 0, nil, err
	}
	defer statusRows.Close()
	statusCounts = make(map[string]int64)
	for statusRows.Next() {
		var status string
		var count int64
		if err = statusRows.Scan(&status, &count); err != nil {
			return nil, 0, nil, err
		}
		statusCounts[status] = count
	}
	return daily, avgLatency, statusCounts, statusRows.Err()
}
