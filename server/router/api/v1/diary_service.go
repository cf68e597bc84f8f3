package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apierrors "github.com/nutrisense/nutrisense/internal/errors"
	"github.com/nutrisense/nutrisense/store"
)

type createDiaryRequest struct {
	UserID   int32  `json:"user_id"`
	Food     string `json:"food"`
	Calories int    `json:"calories"`
}

// ListDiaryEntries handles GET /api/diary. An optional user_id query filters
// by owner.
func (s *APIV1Service) ListDiaryEntries(c echo.Context) error {
	find := &store.FindDiaryEntry{}
	if raw := c.QueryParam("user_id"); raw != "" {
		userID, err := parseID(raw)
		if err != nil {
			return respondError(c, err)
		}
		find.UserID = &userID
	}

	entries, err := s.Store.ListDiaryEntries(c.Request().Context(), find)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"diaries": entries,
	})
}

// CreateDiaryEntry handles POST /api/diary.
func (s *APIV1Service) CreateDiaryEntry(c echo.Context) error {
	var req createDiaryRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, apierrors.InvalidArgument("invalid request body"))
	}
	if req.Food == "" {
		return respondError(c, apierrors.InvalidArgument("food is required"))
	}

	entry, err := s.Store.CreateDiaryEntry(c.Request().Context(), &store.DiaryEntry{
		UserID:   req.UserID,
		Food:     req.Food,
		Calories: req.Calories,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"diary":   entry,
	})
}

// GetDiaryEntry handles GET /api/diary/:id.
func (s *APIV1Service) GetDiaryEntry(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}

	entry, err := s.Store.GetDiaryEntry(c.Request().Context(), &store.FindDiaryEntry{ID: &id})
	if err != nil {
		return respondError(c, err)
	}
	if entry == nil {
		return respondError(c, apierrors.NotFound("diary entry"))
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"diary":   entry,
	})
}

// DeleteDiaryEntry handles DELETE /api/diary/:id.
func (s *APIV1Service) DeleteDiaryEntry(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}

	entry, err := s.Store.GetDiaryEntry(c.Request().Context(), &store.FindDiaryEntry{ID: &id})
	if err != nil {
		return respondError(c, err)
	}
	if entry == nil {
		return respondError(c, apierrors.NotFound("diary entry"))
	}

	if err := s.Store.DeleteDiaryEntryByID(c.Request().Context(), &store.DeleteDiaryEntry{ID: id}); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"deleted": id,
	})
}
