package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sumeshhesums/ml-deployment-platform/internal/models"
)

type AuditPostgres struct {
	db *pgxpool.Pool
}

func NewAuditPostgres(db *pgxpool.Pool) *AuditPostgres {
	return &AuditPostgres{db: db}
}

func (r *AuditPostgres) Create(ctx context.Context, log models.AuditLog) error {
	query := `
		INSERT INTO audit_logs (user_id, action, resource_type, resource_id, details, ip_address, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.Exec(ctx, query,
		log.UserID, log.Action, log.ResourceType, log.ResourceID, log.Details, log.IPAddress, log.UserAgent)
	return err
}

// List returns audit entries newest first; zero-value filters are ignored.
func (r *AuditPostgres) List(ctx context.Context, userID *uuid.UUID, action string, offset, limit int) ([]models.AuditLog, error) {
	query := `
		SELECT id, user_id, action, resource_type, resource_id, details, ip_address, user_agent, created_at
		FROM audit_logs
		WHERE ($1::uuid IS NULL OR user_id = $1)
		  AND ($2 = '' OR action = $2)
		ORDER BY created_at DESC
		OFFSET $3 LIMIT $4`
	rows, err := r.db.Query(ctx, query, userID, action, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []models.AuditLog
	for rows.Next() {
		var log models.AuditLog
		err = rows.Scan(
			&log.ID,
			&log.UserID,
			&log.Action,
			&log.ResourceType,
			&log.ResourceID,
			&log.Details,
			&log.IPAddress,
			&log.UserAgent,
			&log.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}
