package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/stockpilot/internal/domain"
)

type loginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// Login opens a session. Credentials come as JSON or as a form.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.badRequest(c, "login", err)
		return
	}

	session, err := h.terminal.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// CurrentSession returns the stored session without contacting the backend.
func (h *Handler) CurrentSession(c *gin.Context) {
	session, ok := h.terminal.Session()
	if !ok {
		h.fail(c, domain.ErrNotAuthenticated)
		return
	}
	c.JSON(http.StatusOK, session)
}

// Logout closes the session. Logging out twice is not an error.
func (h *Handler) Logout(c *gin.Context) {
	if err := h.terminal.Logout(); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
