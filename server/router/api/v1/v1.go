// Package v1 exposes the HTTP API: chat, restaurant discovery, nutrition
// advice, and the users/diary/social CRUD routes.
package v1

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nutrisense/nutrisense/internal/profile"
	"github.com/nutrisense/nutrisense/plugin/ai"
	"github.com/nutrisense/nutrisense/plugin/ai/conversation"
	"github.com/nutrisense/nutrisense/plugin/ai/nutrition"
	apierrors "github.com/nutrisense/nutrisense/internal/errors"
	"github.com/nutrisense/nutrisense/server/middleware"
	"github.com/nutrisense/nutrisense/server/service/restaurant"
	"github.com/nutrisense/nutrisense/store"
)

// APIV1Service holds the handlers and their dependencies. Restaurants and
// Advisor are nil when the corresponding upstream credential is absent; their
// routes then answer 503 instead of taking the whole process down.
type APIV1Service struct {
	Profile     *profile.Profile
	Store       *store.Store
	Sessions    *conversation.Store
	LLM         ai.Generator
	Advisor     *nutrition.Advisor
	Restaurants *restaurant.Service

	chatLimiter *middleware.RateLimiter
}

// NewAPIV1Service creates the API service.
func NewAPIV1Service(profile *profile.Profile, store *store.Store, sessions *conversation.Store, llm ai.Generator, advisor *nutrition.Advisor, restaurants *restaurant.Service) *APIV1Service {
	return &APIV1Service{
		Profile:     profile,
		Store:       store,
		Sessions:    sessions,
		LLM:         llm,
		Advisor:     advisor,
		Restaurants: restaurants,
		chatLimiter: middleware.NewRateLimiter(20, 5),
	}
}

// RegisterRoutes registers all API routes on the echo instance.
func (s *APIV1Service) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api")

	api.GET("/health", s.Health)

	api.POST("/chat", s.Chat)
	api.POST("/chat/clear", s.ClearChat)

	api.GET("/restaurants", s.ListRestaurants)
	api.GET("/restaurants/:id", s.GetRestaurant)
	api.GET("/search", s.SearchRestaurants)
	api.POST("/cache/clear", s.ClearRestaurantCache)

	aiGroup := api.Group("/ai")
	aiGroup.POST("/analyze", s.AnalyzeNutrition)
	aiGroup.POST("/recommend", s.RecommendRestaurants)
	aiGroup.POST("/question", s.AskQuestion)
	aiGroup.POST("/recipe", s.GetRecipe)
	aiGroup.GET("/health", s.AIHealth)

	users := api.Group("/users")
	users.GET("", s.ListUsers)
	users.POST("", s.CreateUser)
	users.GET("/:id", s.GetUser)

	diary := api.Group("/diary")
	diary.GET("", s.ListDiaryEntries)
	diary.POST("", s.CreateDiaryEntry)
	diary.GET("/:id", s.GetDiaryEntry)
	diary.DELETE("/:id", s.DeleteDiaryEntry)

	social := api.Group("/social")
	social.GET("/posts", s.ListPosts)
	social.POST("/posts", s.CreatePost)
	social.GET("/posts/:id", s.GetPost)
}

// errorResponse is the structured failure body. Raw stack traces never reach
// the client.
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
}

// respondError maps an error to an HTTP status with a structured body.
func respondError(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	code := apierrors.GetCodeFromError(err, "")

	switch code {
	case apierrors.ErrCodeInvalidArgument:
		status = http.StatusBadRequest
	case apierrors.ErrCodeNotFound:
		status = http.StatusNotFound
	case apierrors.ErrCodeRateLimitExceeded:
		status = http.StatusTooManyRequests
	case apierrors.ErrCodeConfigurationMissing:
		status = http.StatusServiceUnavailable
	case apierrors.ErrCodeUpstreamUnavailable, apierrors.ErrCodeUpstreamRejected:
		status = http.StatusBadGateway
	case apierrors.ErrCodeTimeout:
		status = http.StatusGatewayTimeout
	}

	message := err.Error()
	if apiErr, ok := err.(*apierrors.APIError); ok {
		message = apiErr.Message
	} else {
		slog.Error("unhandled request error", slog.String("error", err.Error()))
		message = "internal server error"
	}

	return c.JSON(status, errorResponse{Success: false, Error: message, Code: string(code)})
}
