package model

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sumeshhesums/ml-deployment-platform/internal/app_errors"
	"github.com/sumeshhesums/ml-deployment-platform/internal/delivery/http/controllers/middleware"
	"github.com/sumeshhesums/ml-deployment-platform/internal/models"
	"github.com/sumeshhesums/ml-deployment-platform/internal/service/audit"
	"github.com/sumeshhesums/ml-deployment-platform/internal/service/registry"
	"github.com/sumeshhesums/ml-deployment-platform/pkg/logger"
)

type RegistryService interface {
	Upload(ctx context.Context, input registry.UploadInput) (*models.MLModel, error)
	List(ctx context.Context, ownerID uuid.UUID, offset, limit int) ([]models.MLModel, error)
	Model(ctx context.Context, id, ownerID uuid.UUID) (*models.MLModel, error)
	DownloadURL(ctx context.Context, id, ownerID uuid.UUID) (string, error)
	Update(ctx context.Context, id, ownerID uuid.UUID, upd models.ModelUpdate) (*models.MLModel, error)
	Delete(ctx context.Context, id, ownerID uuid.UUID) error
	Search(ctx context.Context, ownerID uuid.UUID, text string, limit int) ([]models.MLModel, error)
	Stats(ctx context.Context, id, ownerID uuid.UUID) (*registry.ModelStats, error)
	History(ctx context.Context, id, ownerID uuid.UUID, offset, limit int) ([]models.Prediction, error)
}

type RegistryHandler struct {
	service RegistryService
	audit   *audit.Recorder
	log     logger.Log
}

func NewRegistryHandler(l logger.Log, s RegistryService, recorder *audit.Recorder) *RegistryHandler {
	return &RegistryHandler{
		service: s,
		audit:   recorder,
		log:     l,
	}
}

type modelResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Framework   string  `json:"framework"`
	ModelType   string  `json:"model_type"`
	Version     string  `json:"version"`
	FileSize    int64   `json:"file_size"`
	IsActive    bool    `json:"is_active"`
	UsageCount  int64   `json:"usage_count"`
	OwnerID     string  `json:"owner_id"`
	CreatedAt   string  `json:"created_at"`
	InputSchema *string `json:"input_schema,omitempty"`
}

func toModelResponse(m models.MLModel) modelResponse {
	return modelResponse{
		ID:          m.ID.String(),
		Name:        m.Name,
		Description: m.Description,
		Framework:   m.Framework,
		ModelType:   m.ModelType,
		Version:     m.Version,
		FileSize:    m.FileSize,
		IsActive:    m.IsActive,
		UsageCount:  m.UsageCount,
		OwnerID:     m.OwnerID.String(),
		CreatedAt:   m.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		InputSchema: m.InputSchema,
	}
}

func toModelResponses(list []models.MLModel) []modelResponse {
	result := make([]modelResponse, 0, len(list))
	for _, m := range list {
		result = append(result, toModelResponse(m))
	}
	return result
}

func (h *RegistryHandler) Upload(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot open file"})
		return
	}
	defer file.Close()

	name := c.PostForm("name")
	if name == "" {
		name = "Unnamed Model"
	}
	framework := c.PostForm("framework")
	if framework == "" {
		framework = models.FrameworkLinear
	}
	version := c.PostForm("version")
	if version == "" {
		version = "1.0.0"
	}

	created, err := h.service.Upload(c.Request.Context(), registry.UploadInput{
		Name:        name,
		Description: c.PostForm("description"),
		Framework:   framework,
		Version:     version,
		Filename:    fileHeader.Filename,
		Reader:      file,
		Size:        fileHeader.Size,
		OwnerID:     identity.UserID,
	})
	if err != nil {
		if errors.Is(err, app_errors.ErrFileTooLarge) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		h.log.ErrorErr("error uploading model", err)
		return
	}

	h.audit.Record(c.Request.Context(), audit.Entry{
		UserID:       &identity.UserID,
		Action:       models.AuditActionUploadModel,
		ResourceType: "model",
		ResourceID:   &created.ID,
		Details:      map[string]any{"name": created.Name, "framework": created.Framework},
		IPAddress:    c.ClientIP(),
		UserAgent:    c.Request.UserAgent(),
	})
	c.JSON(http.StatusCreated, toModelResponse(*created))
}

func (h *RegistryHandler) List(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	offset, limit := pagination(c, 100)

	list, err := h.service.List(c.Request.Context(), identity.UserID, offset, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toModelResponses(list))
}

func (h *RegistryHandler) Search(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
		return
	}

	list, err := h.service.Search(c.Request.Context(), identity.UserID, query, 50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		h.log.ErrorErr("model search failed", err)
		return
	}
	c.JSON(http.StatusOK, toModelResponses(list))
}

func (h *RegistryHandler) Get(c *gin.Context) {
	identity, modelID, ok := identityAndModelID(c)
	if !ok {
		return
	}
	m, err := h.service.Model(c.Request.Context(), modelID, identity.UserID)
	if err != nil {
		h.respondModelErr(c, err)
		return
	}
	c.JSON(http.StatusOK, toModelResponse(*m))
}

func (h *RegistryHandler) Download(c *gin.Context) {
	identity, modelID, ok := identityAndModelID(c)
	if !ok {
		return
	}
	url, err := h.service.DownloadURL(c.Request.Context(), modelID, identity.UserID)
	if err != nil {
		h.respondModelErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"download_url": url})
}

type updateModelRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Version     *string `json:"version"`
	IsActive    *bool   `json:"is_active"`
}

func (h *RegistryHandler) Update(c *gin.Context) {
	identity, modelID, ok := identityAndModelID(c)
	if !ok {
		return
	}

	var input updateModelRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	m, err := h.service.Update(c.Request.Context(), modelID, identity.UserID, models.ModelUpdate{
		Name:        input.Name,
		Description: input.Description,
		Version:     input.Version,
		IsActive:    input.IsActive,
	})
	if err != nil {
		h.respondModelErr(c, err)
		return
	}
	c.JSON(http.StatusOK, toModelResponse(*m))
}

func (h *RegistryHandler) Delete(c *gin.Context) {
	identity, modelID, ok := identityAndModelID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), modelID, identity.UserID); err != nil {
		h.respondModelErr(c, err)
		return
	}

	h.audit.Record(c.Request.Context(), audit.Entry{
		UserID:       &identity.UserID,
		Action:       models.AuditActionDeleteModel,
		ResourceType: "model",
		ResourceID:   &modelID,
		IPAddress:    c.ClientIP(),
		UserAgent:    c.Request.UserAgent(),
	})
	c.Status(http.StatusNoContent)
}

func (h *RegistryHandler) Stats(c *gin.Context) {
	identity, modelID, ok := identityAndModelID(c)
	if !ok {
		return
	}
	stats, err := h.service.Stats(c.Request.Context(), modelID, identity.UserID)
	if err != nil {
		h.respondModelErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"model_info": toModelResponse(*stats.Model),
		"statistics": gin.H{
			"usage_count": stats.UsageCount,
			"upload_date": stats.Model.CreatedAt,
		},
		"recent_predictions": stats.RecentPredictions,
	})
}

func (h *RegistryHandler) History(c *gin.Context) {
	identity, modelID, ok := identityAndModelID(c)
	if !ok {
		return
	}
	offset, limit := pagination(c, 50)

	history, err := h.service.History(c.Request.Context(), modelID, identity.UserID, offset, limit)
	if err != nil {
		h.respondModelErr(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

func identityAndModelID(c *gin.Context) (middleware.Identity, uuid.UUID, bool) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return middleware.Identity{}, uuid.Nil, false
	}
	modelID, err := uuid.Parse(c.Param("model_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid model_id"})
		return middleware.Identity{}, uuid.Nil, false
	}
	return identity, modelID, true
}

func (h *RegistryHandler) respondModelErr(c *gin.Context, err error) {
	if errors.Is(err, app_errors.ErrModelNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	h.log.ErrorErr("registry operation failed", err)
}

func pagination(c *gin.Context, defaultLimit int) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 1000 {
		limit = defaultLimit
	}
	return offset, limit
}
