package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apierrors "github.com/nutrisense/nutrisense/internal/errors"
	"github.com/nutrisense/nutrisense/store"
)

type createPostRequest struct {
	UserID  int32  `json:"user_id"`
	Content string `json:"content"`
}

// ListPosts handles GET /api/social/posts.
func (s *APIV1Service) ListPosts(c echo.Context) error {
	posts, err := s.Store.ListPosts(c.Request().Context(), &store.FindPost{})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"posts":   posts,
	})
}

// CreatePost handles POST /api/social/posts.
func (s *APIV1Service) CreatePost(c echo.Context) error {
	var req createPostRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, apierrors.InvalidArgument("invalid request body"))
	}
	if req.Content == "" {
		return respondError(c, apierrors.InvalidArgument("content is required"))
	}

	post, err := s.Store.CreatePost(c.Request().Context(), &store.Post{
		UserID:  req.UserID,
		Content: req.Content,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"post":    post,
	})
}

// GetPost handles GET /api/social/posts/:id.
func (s *APIV1Service) GetPost(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}

	post, err := s.Store.GetPost(c.Request().Context(), &store.FindPost{ID: &id})
	if err != nil {
		return respondError(c, err)
	}
	if post == nil {
		return respondError(c, apierrors.NotFound("post"))
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"post":    post,
	})
}
