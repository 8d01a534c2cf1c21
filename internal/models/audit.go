package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	AuditActionRegister    = "user.register"
	AuditActionLogin       = "user.login"
	AuditActionToggleUser  = "user.toggle"
	AuditActionUploadModel = "model.upload"
	AuditActionDeleteModel = "model.delete"
	AuditActionPredict     = "model.predict"
)

type AuditLog struct {
	ID           uuid.UUID
	UserID       *uuid.UUID
	Action       string
	ResourceType string
	ResourceID   *uuid.UUID
	Details      map[string]any
	IPAddress    string
	UserAgent    string
	CreatedAt    time.Time
}
