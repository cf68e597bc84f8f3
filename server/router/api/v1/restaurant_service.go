package v1

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	apierrors "github.com/nutrisense/nutrisense/internal/errors"
	"github.com/nutrisense/nutrisense/server/internal/observability"
	"github.com/nutrisense/nutrisense/server/service/restaurant"
)

// ListRestaurants handles GET /api/restaurants?category=&refresh=.
func (s *APIV1Service) ListRestaurants(c echo.Context) error {
	if s.Restaurants == nil {
		return respondError(c, apierrors.ConfigurationMissing("places service is not enabled"))
	}

	category, err := restaurant.ParseCategory(c.QueryParam("category"))
	if err != nil {
		return respondError(c, err)
	}
	forceRefresh := strings.EqualFold(c.QueryParam("refresh"), "true")

	observability.GlobalMetrics().RecordRequest("restaurants")
	result, err := s.Restaurants.List(c.Request().Context(), category, forceRefresh)
	if err != nil {
		observability.GlobalMetrics().RecordFailure("restaurants")
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success":  true,
		"data":     result.Restaurants,
		"count":    result.Count,
		"cached":   result.Cached,
		"stale":    result.Stale,
		"category": category,
	})
}

// GetRestaurant handles GET /api/restaurants/:id. The record is resolved
// against the cached list, so the route only knows restaurants the discovery
// pipeline has seen.
func (s *APIV1Service) GetRestaurant(c echo.Context) error {
	if s.Restaurants == nil {
		return respondError(c, apierrors.ConfigurationMissing("places service is not enabled"))
	}

	record, err := s.Restaurants.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"data":    record,
	})
}

// SearchRestaurants handles GET /api/search?q=.
func (s *APIV1Service) SearchRestaurants(c echo.Context) error {
	if s.Restaurants == nil {
		return respondError(c, apierrors.ConfigurationMissing("places service is not enabled"))
	}

	query := strings.TrimSpace(c.QueryParam("q"))
	observability.GlobalMetrics().RecordRequest("search")
	result, err := s.Restaurants.Search(c.Request().Context(), query)
	if err != nil {
		observability.GlobalMetrics().RecordFailure("search")
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"data":    result.Restaurants,
		"count":   result.Count,
		"cached":  result.Cached,
		"stale":   result.Stale,
		"query":   query,
	})
}

// ClearRestaurantCache handles POST /api/cache/clear.
func (s *APIV1Service) ClearRestaurantCache(c echo.Context) error {
	if s.Restaurants == nil {
		return respondError(c, apierrors.ConfigurationMissing("places service is not enabled"))
	}

	s.Restaurants.ClearCache()
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "快取已清除",
	})
}

// Health handles GET /api/health.
func (s *APIV1Service) Health(c echo.Context) error {
	cacheStatus := "disabled"
	if s.Restaurants != nil {
		cacheStatus = s.Restaurants.CacheStatus()
	}
	return c.JSON(http.StatusOK, map[string]any{
		"status":       "ok",
		"timestamp":    time.Now().Format(time.RFC3339),
		"cache_status": cacheStatus,
		"metrics":      observability.GlobalMetrics().Snapshot(),
	})
}
