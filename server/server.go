// Package server assembles the HTTP server and its component services.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/nutrisense/nutrisense/internal/profile"
	"github.com/nutrisense/nutrisense/plugin/ai"
	"github.com/nutrisense/nutrisense/plugin/ai/conversation"
	"github.com/nutrisense/nutrisense/plugin/ai/nutrition"
	"github.com/nutrisense/nutrisense/plugin/places"
	apiv1 "github.com/nutrisense/nutrisense/server/router/api/v1"
	"github.com/nutrisense/nutrisense/server/service/restaurant"
	"github.com/nutrisense/nutrisense/store"
)

// Server is the nutrisense HTTP server.
type Server struct {
	Profile *profile.Profile
	Store   *store.Store

	echoServer *echo.Echo
	sessions   *conversation.Store
	cleanupJob *conversation.CleanupJob
}

// NewServer creates a server from the profile. A missing upstream credential
// disables that upstream's routes; it never takes down unrelated components.
func NewServer(ctx context.Context, profile *profile.Profile, store *store.Store) (*Server, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	sessions := conversation.NewStore(conversation.DefaultMaxSessions)

	s := &Server{
		Profile:    profile,
		Store:      store,
		echoServer: e,
		sessions:   sessions,
		cleanupJob: conversation.NewCleanupJob(sessions, conversation.DefaultCleanupConfig()),
	}

	var llm ai.Generator
	var advisor *nutrition.Advisor
	if profile.IsAIEnabled() {
		provider, err := ai.NewProvider(ai.NewConfigFromProfile(profile))
		if err != nil {
			return nil, errors.Wrap(err, "failed to create generation provider")
		}
		llm = provider
		advisor = nutrition.NewAdvisor(provider, sessions)
	} else {
		slog.Warn("generation API key not configured, AI routes disabled")
	}

	var restaurants *restaurant.Service
	if profile.IsPlacesEnabled() {
		placesClient, err := places.NewClient(places.NewConfigFromProfile(profile))
		if err != nil {
			return nil, errors.Wrap(err, "failed to create places client")
		}
		restaurants = restaurant.NewService(placesClient, slog.Default())
	} else {
		slog.Warn("places API key not configured, restaurant routes disabled")
	}

	apiService := apiv1.NewAPIV1Service(profile, store, sessions, llm, advisor, restaurants)
	apiService.RegisterRoutes(e)

	return s, nil
}

// Start begins serving requests and starts the background jobs.
func (s *Server) Start(ctx context.Context) error {
	s.cleanupJob.Start(ctx)

	address := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	slog.Info("server started",
		slog.String("address", address),
		slog.String("mode", s.Profile.Mode),
		slog.String("version", s.Profile.Version))
	if err := s.echoServer.Start(address); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the background jobs and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	s.cleanupJob.Stop()

	if err := s.echoServer.Shutdown(ctx); err != nil {
		slog.Error("failed to shutdown server gracefully", slog.String("error", err.Error()))
	}

	if err := s.Store.Close(); err != nil {
		slog.Error("failed to close store", slog.String("error", err.Error()))
	}

	slog.Info("server shutdown complete")
}
