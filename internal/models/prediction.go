package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	PredictionStatusSuccess = "success"
	PredictionStatusError   = "error"
)

type Prediction struct {
	ID           uuid.UUID
	ModelID      uuid.UUID
	UserID       uuid.UUID
	InputData    string
	OutputData   string
	Latency      float64
	Status       string
	ErrorMessage string
	CreatedAt    time.Time
}

type PredictionResult struct {
	ModelID     uuid.UUID
	ModelName   string
	Predictions []float64
	Latency     float64
	Timestamp   time.Time
}
