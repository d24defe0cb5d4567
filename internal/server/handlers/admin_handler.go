package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/stockpilot/internal/domain/models"
)

// Settings returns the store configuration.
func (h *Handler) Settings(c *gin.Context) {
	settings, err := h.terminal.Settings(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// SaveSettings replaces the store configuration.
func (h *Handler) SaveSettings(c *gin.Context) {
	var settings models.StoreSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		h.badRequest(c, "save settings", err)
		return
	}
	if err := h.terminal.SaveSettings(c.Request.Context(), settings); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// ListUsers returns every account.
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.terminal.Users(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// CreateUser registers an account.
func (h *Handler) CreateUser(c *gin.Context) {
	var in models.UserInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.badRequest(c, "create user", err)
		return
	}
	if err := h.terminal.RegisterUser(c.Request.Context(), in); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"username": in.Username, "rol": in.Role})
}

// DeleteUser removes an account.
func (h *Handler) DeleteUser(c *gin.Context) {
	id, err := pathInt(c, "id")
	if err != nil {
		h.badRequest(c, "delete user", err)
		return
	}
	if err := h.terminal.DeleteUser(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
