package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

type UserHandler struct{}

func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

type meResponse struct {
	Success bool   `json:"success"`
	UserID  string `json:"user_id"`
	Role    string `json:"role"`
}

// Me returns the authenticated principal for the current request.
//
// @Summary      Current user identity
// @Tags         users
// @Produce      json
// @Success      200  {object}  meResponse
// @Failure      401  {object}  errorResponse
// @Router       /users/me [get]
// @Security     BearerAuth
func (h *UserHandler) Me(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, meResponse{
		Success: true,
		UserID:  principal.Subject,
		Role:    strings.TrimSpace(principal.Role),
	})
}
