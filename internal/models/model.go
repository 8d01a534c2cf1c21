package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	FrameworkLinear   = "linear"
	FrameworkLogistic = "logistic"
)

type MLModel struct {
	ID           uuid.UUID
	Name         string
	Description  string
	Framework    string
	ModelType    string
	Version      string
	ObjectKey    string
	FileSize     int64
	InputSchema  *string
	OutputSchema *string
	IsActive     bool
	UsageCount   int64
	OwnerID      uuid.UUID
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ModelUpdate carries the mutable registry fields; nil means "leave as is".
type ModelUpdate struct {
	Name        *string
	Description *string
	Version     *string
	IsActive    *bool
}
