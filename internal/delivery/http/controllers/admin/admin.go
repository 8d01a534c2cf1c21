package admin

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
	adminservice "github.com/sumeshhesums/ml-deployment-platform/internal/service/admin"
	"github.com/sumeshhesums/ml-deployment-platform/internal/service/audit"
	"github.com/sumeshhesums/ml-deployment-platform/pkg/logger"
)

type AdminService interface {
	ListUsers(ctx context.Context, offset, limit int) ([]models.User, error)
	SetUserActive(ctx context.Context, id uuid.UUID, active bool) (*models.User, error)
	SystemStats(ctx context.Context) (*adminservice.SystemStats, error)
	Analytics(ctx context.Context, days int) (*adminservice.Analytics, error)
	AuditLogs(ctx context.Context, userID *uuid.UUID, action string, offset, limit int) ([]models.AuditLog, error)
}

type AdminHandler struct {
	service AdminService
	audit   *audit.Recorder
	log     logger.Log
}

func NewAdminHandler(l logger.Log, s AdminService, recorder *audit.Recorder) *AdminHandler {
	return &AdminHandler{
		service: s,
		audit:   recorder,
		log:     l,
	}
}

type userResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	IsActive bool   `json:"is_active"`
	IsAdmin  bool   `json:"is_admin"`
}

func toUserResponse(u models.User) userResponse {
	return userResponse{
		ID:       u.ID.String(),
		Email:    u.Email,
		Username: u.Username,
		FullName: u.FullName,
		IsActive: u.IsActive,
		IsAdmin:  u.IsAdmin,
	}
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	offset, limit := pagination(c, 100)

	users, err := h.service.ListUsers(c.Request.Context(), offset, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		h.log.ErrorErr("error listing users", err)
		return
	}

	result := make([]userResponse, 0, len(users))
	for _, u := range users {
		result = append(result, toUserResponse(u))
	}
	c.JSON(http.StatusOK, result)
}

func (h *AdminHandler) ToggleUserActive(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
		return
	}

	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	// An admin locking themselves out is never what anyone wanted.
	if identity.UserID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot deactivate your own account"})
		return
	}

	var input struct {
		IsActive *bool `json:"is_active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.service.SetUserActive(c.Request.Context(), userID, *input.IsActive)
	if err != nil {
		if errors.Is(err, app_errors.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		h.log.ErrorErr("error toggling user", err)
		return
	}

	h.audit.Record(c.Request.Context(), audit.Entry{
		UserID:       &identity.UserID,
		Action:       models.AuditActionToggleUser,
		ResourceType: "user",
		ResourceID:   &userID,
		Details:      map[string]any{"is_active": user.IsActive},
		IPAddress:    c.ClientIP(),
		UserAgent:    c.Request.UserAgent(),
	})
	c.JSON(http.StatusOK, toUserResponse(*user))
}

func (h *AdminHandler) SystemStats(c *gin.Context) {
	stats, err := h.service.SystemStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		h.log.ErrorErr("error computing system stats", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *AdminHandler) Analytics(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))
	if days <= 0 || days > 365 {
		days = 30
	}

	analytics, err := h.service.Analytics(c.Request.Context(), days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		h.log.ErrorErr("error computing analytics", err)
		return
	}
	c.JSON(http.StatusOK, analytics)
}

func (h *AdminHandler) AuditLogs(c *gin.Context) {
	offset, limit := pagination(c, 100)

	var userID *uuid.UUID
	if raw := c.Query("user_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
			return
		}
		userID = &id
	}

	logs, err := h.service.AuditLogs(c.Request.Context(), userID, c.Query("action"), offset, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		h.log.ErrorErr("error listing audit logs", err)
		return
	}
	c.JSON(http.StatusOK, logs)
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
