package model

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sumeshhesums/ml-deployment-platform/internal/app_errors"
	"github.com/sumeshhesums/ml-deployment-platform/internal/models"
	"github.com/sumeshhesums/ml-deployment-platform/internal/service/audit"
	"github.com/sumeshhesums/ml-deployment-platform/internal/service/predict"
	"github.com/sumeshhesums/ml-deployment-platform/pkg/logger"
)

type PredictService interface {
	Predict(ctx context.Context, modelID, userID uuid.UUID, in predict.Input) (*models.PredictionResult, error)
}

type PredictHandler struct {
	service PredictService
	audit   *audit.Recorder
	log     logger.Log
}

func NewPredictHandler(l logger.Log, s PredictService, recorder *audit.Recorder) *PredictHandler {
	return &PredictHandler{
		service: s,
		audit:   recorder,
		log:     l,
	}
}

type predictRequest struct {
	Input json.RawMessage `json:"input" binding:"required"`
}

// parseInput accepts either a positional vector ([1.0, 2.0]) or a named
// feature map ({"age": 30, "income": 50000}).
func parseInput(raw json.RawMessage) (predict.Input, error) {
	var vector []float64
	if err := json.Unmarshal(raw, &vector); err == nil {
		return predict.Input{Vector: vector}, nil
	}
	var features map[string]float64
	if err := json.Unmarshal(raw, &features); err == nil {
		return predict.Input{Features: features}, nil
	}
	return predict.Input{}, app_errors.ErrBadInput
}

func (h *PredictHandler) Predict(c *gin.Context) {
	identity, modelID, ok := identityAndModelID(c)
	if !ok {
		return
	}

	var req predictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	input, err := parseInput(req.Input)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "input must be a numeric vector or a feature map"})
		return
	}

	result, err := h.service.Predict(c.Request.Context(), modelID, identity.UserID, input)
	if err != nil {
		h.respondPredictErr(c, err)
		return
	}

	h.audit.Record(c.Request.Context(), audit.Entry{
		UserID:       &identity.UserID,
		Action:       models.AuditActionPredict,
		ResourceType: "model",
		ResourceID:   &modelID,
		IPAddress:    c.ClientIP(),
		UserAgent:    c.Request.UserAgent(),
	})
	c.JSON(http.StatusOK, gin.H{
		"model_id":    result.ModelID,
		"model_name":  result.ModelName,
		"predictions": result.Predictions,
		"latency":     result.Latency,
		"timestamp":   result.Timestamp,
	})
}

func (h *PredictHandler) respondPredictErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, app_errors.ErrModelNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, app_errors.ErrBadInput),
		errors.Is(err, app_errors.ErrBadArtifact),
		errors.Is(err, app_errors.ErrUnsupportedFramework):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		h.log.ErrorErr("prediction failed", err)
	}
}
