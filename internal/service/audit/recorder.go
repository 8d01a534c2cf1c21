package audit

import (
	"context"

	"github.com/google/uuid"

	"github.com/sumeshhesums/ml-deployment-platform/internal/models"
	"github.com/sumeshhesums/ml-deployment-platform/pkg/logger"
)

type Repo interface {
	Create(ctx context.Context, log models.AuditLog) error
}

// Recorder writes audit entries best-effort: a failed write is logged but
// never fails the request that triggered it.
type Recorder struct {
	log  logger.Log
	repo Repo
}

func NewRecorder(l logger.Log, repo Repo) *Recorder {
	return &Recorder{log: l, repo: repo}
}

type Entry struct {
	UserID       *uuid.UUID
	Action       string
	ResourceType string
	ResourceID   *uuid.UUID
	Details      map[string]any
	IPAddress    string
	UserAgent    string
}

func (r *Recorder) Record(ctx context.Context, e Entry) {
	err := r.repo.Create(ctx, models.AuditLog{
		UserID:       e.UserID,
		Action:       e.Action,
		ResourceType: e.ResourceType,
		ResourceID:   e.ResourceID,
		Details:      e.Details,
		IPAddress:    e.IPAddress,
		UserAgent:    e.UserAgent,
	})
	if err != nil {
		r.log.ErrorErr("failed to write audit log", err, "action", e.Action)
	}
}
