package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fbresponse/internal/models"
	"fbresponse/internal/repository"
	"fbresponse/internal/service"
)

type UserHandler interface {
	GetProfile(c *gin.Context)
	ChangePassword(c *gin.Context)
	ListUsers(c *gin.Context)
	UpdateStatus(c *gin.Context)
}

type userHandler struct {
	authService service.AuthService
	userRepo    repository.UserRepository
	logger      *zap.Logger
}

func NewUserHandler(authService service.AuthService, userRepo repository.UserRepository, logger *zap.Logger) UserHandler {
	return &userHandler{authService: authService, userRepo: userRepo, logger: logger}
}

// GetProfile handles GET /api/users/profile
func (h *userHandler) GetProfile(c *gin.Context) {
	username := c.MustGet("username").(string)

	user, err := h.authService.GetProfile(username)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		h.logger.Error("Failed to get profile", zap.Error(err), zap.String("username", username))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user.Profile()})
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
}

// ChangePassword handles PUT /api/users/password
func (h *userHandler) ChangePassword(c *gin.Context) {
	username := c.MustGet("username").(string)

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.authService.ChangePassword(username, req.CurrentPassword, req.NewPassword); err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Current password is incorrect"})
			return
		}
		h.logger.Error("Failed to change password", zap.Error(err), zap.String("username", username))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to change password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

// ListUsers handles GET /api/users (admin only)
func (h *userHandler) ListUsers(c *gin.Context) {
	users, err := h.userRepo.ListUsers()
	if err != nil {
		h.logger.Error("Failed to list users", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get users"})
		return
	}

	profiles := make([]models.Profile, 0, len(users))
	for _, u := range users {
		profiles = append(profiles, u.Profile())
	}

	c.JSON(http.StatusOK, gin.H{"users": profiles, "total": len(profiles)})
}

type UpdateStatusRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// UpdateStatus handles PUT /api/users/:id/status (admin only)
func (h *userHandler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.userRepo.UpdateActive(id, *req.IsActive); err != nil {
		h.logger.Error("Failed to update user status", zap.Error(err), zap.Int64("user_id", id))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user status"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User status updated"})
}
