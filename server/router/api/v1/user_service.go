package v1

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	apierrors "github.com/nutrisense/nutrisense/internal/errors"
	"github.com/nutrisense/nutrisense/store"
)

type createUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ListUsers handles GET /api/users.
func (s *APIV1Service) ListUsers(c echo.Context) error {
	users, err := s.Store.ListUsers(c.Request().Context(), &store.FindUser{})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"users":   users,
	})
}

// CreateUser handles POST /api/users.
func (s *APIV1Service) CreateUser(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, apierrors.InvalidArgument("invalid request body"))
	}
	if req.Name == "" || req.Email == "" {
		return respondError(c, apierrors.InvalidArgument("name and email are required"))
	}

	user, err := s.Store.CreateUser(c.Request().Context(), &store.User{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"user":    user,
	})
}

// GetUser handles GET /api/users/:id.
func (s *APIV1Service) GetUser(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}

	user, err := s.Store.GetUser(c.Request().Context(), &store.FindUser{ID: &id})
	if err != nil {
		return respondError(c, err)
	}
	if user == nil {
		return respondError(c, apierrors.NotFound("user"))
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"user":    user,
	})
}

// parseID parses a path parameter as an int32 identifier.
func parseID(raw string) (int32, error) {
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, apierrors.InvalidArgument("invalid id: " + raw)
	}
	return int32(id), nil
}
