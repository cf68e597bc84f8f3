package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nutrisense/nutrisense/plugin/ai/nutrition"
	apierrors "github.com/nutrisense/nutrisense/internal/errors"
)

type analyzeRequest struct {
	Meals []nutrition.Meal `json:"meals"`
}

// AnalyzeNutrition handles POST /api/ai/analyze.
func (s *APIV1Service) AnalyzeNutrition(c echo.Context) error {
	if s.Advisor == nil {
		return respondError(c, apierrors.ConfigurationMissing("AI service is not enabled"))
	}

	var req analyzeRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, apierrors.InvalidArgument("invalid request body"))
	}
	if len(req.Meals) == 0 {
		return respondError(c, apierrors.InvalidArgument("meals is required"))
	}

	analysis, err := s.Advisor.AnalyzeMeals(c.Request().Context(), req.Meals)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"data":    analysis,
	})
}

type recommendRequest struct {
	SessionID         string                `json:"session_id"`
	UserProfile       nutrition.UserProfile `json:"user_profile"`
	MealType          string                `json:"meal_type"`
	CuisinePreference string                `json:"cuisine_preference"`
}

// RecommendRestaurants handles POST /api/ai/recommend.
func (s *APIV1Service) RecommendRestaurants(c echo.Context) error {
	if s.Advisor == nil {
		return respondError(c, apierrors.ConfigurationMissing("AI service is not enabled"))
	}

	var req recommendRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, apierrors.InvalidArgument("invalid request body"))
	}
	if req.UserProfile.Goal == "" {
		return respondError(c, apierrors.InvalidArgument("user_profile.goal is required"))
	}

	recommendation, err := s.Advisor.RecommendRestaurants(
		c.Request().Context(), req.SessionID, req.UserProfile, req.MealType, req.CuisinePreference)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"data":    recommendation,
	})
}

type questionRequest struct {
	SessionID string `json:"session_id"`
	Question  string `json:"question"`
}

// AskQuestion handles POST /api/ai/question.
func (s *APIV1Service) AskQuestion(c echo.Context) error {
	if s.Advisor == nil {
		return respondError(c, apierrors.ConfigurationMissing("AI service is not enabled"))
	}

	var req questionRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, apierrors.InvalidArgument("invalid request body"))
	}
	if req.Question == "" {
		return respondError(c, apierrors.InvalidArgument("question is required"))
	}

	answer, err := s.Advisor.Answer(c.Request().Context(), req.SessionID, req.Question)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"data": map[string]string{
			"question": req.Question,
			"answer":   answer,
		},
	})
}

type recipeRequest struct {
	SessionID string `json:"session_id"`
	DishName  string `json:"dish_name"`
}

// GetRecipe handles POST /api/ai/recipe.
func (s *APIV1Service) GetRecipe(c echo.Context) error {
	if s.Advisor == nil {
		return respondError(c, apierrors.ConfigurationMissing("AI service is not enabled"))
	}

	var req recipeRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, apierrors.InvalidArgument("invalid request body"))
	}
	if req.DishName == "" {
		return respondError(c, apierrors.InvalidArgument("dish_name is required"))
	}

	recipe, err := s.Advisor.Recipe(c.Request().Context(), req.SessionID, req.DishName)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"data": map[string]string{
			"dish_name": req.DishName,
			"recipe":    recipe,
		},
	})
}

// AIHealth handles GET /api/ai/health.
func (s *APIV1Service) AIHealth(c echo.Context) error {
	enabled := s.Advisor != nil
	status := "ok"
	if !enabled {
		status = "disabled"
	}
	return c.JSON(http.StatusOK, map[string]any{
		"status":  status,
		"enabled": enabled,
		"model":   s.Profile.GeminiModel,
	})
}
