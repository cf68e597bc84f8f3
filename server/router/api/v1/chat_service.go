package v1

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/nutrisense/nutrisense/plugin/ai/conversation"
	apierrors "github.com/nutrisense/nutrisense/internal/errors"
	"github.com/nutrisense/nutrisense/server/internal/observability"
)

// chatDirective keeps answers in conversational Traditional Chinese and bans
// markdown, which the mobile client renders as plain text.
const chatDirective = "請用繁體中文自然回答,語氣輕鬆友善。推薦選項控制在3項以內。不要使用markdown格式符號如**或##。"

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

type chatResponse struct {
	Success   bool   `json:"success"`
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
}

// Chat handles POST /api/chat: renders the session's recent window, submits
// the composed prompt, and records the exchange.
func (s *APIV1Service) Chat(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, apierrors.InvalidArgument("invalid request body"))
	}
	if req.Message == "" {
		return respondError(c, apierrors.InvalidArgument("message is required"))
	}
	if req.SessionID == "" {
		req.SessionID = "default"
	}

	if s.LLM == nil {
		return respondError(c, apierrors.ConfigurationMissing("AI service is not enabled"))
	}
	if !s.chatLimiter.Allow(req.SessionID) {
		return respondError(c, apierrors.RateLimitExceeded("too many chat requests, slow down"))
	}

	logger := observability.NewRequestContext(slog.Default(), "chat", req.SessionID)
	logger.Info("chat started",
		slog.Int(observability.LogFieldMessageLen, len(req.Message)))
	observability.GlobalMetrics().RecordRequest("chat")

	prompt := req.Message
	if history := s.Sessions.RenderContext(req.SessionID, conversation.DefaultWindow); history != "" {
		prompt = fmt.Sprintf("%s\n\nQ: %s", history, req.Message)
	}
	prompt = fmt.Sprintf("%s\n\n%s", prompt, chatDirective)

	answer, err := s.LLM.Generate(c.Request().Context(), prompt, 800, 0.8)
	if err != nil {
		logger.Error("chat generation failed", err)
		observability.GlobalMetrics().RecordFailure("chat")
		return respondError(c, err)
	}

	answer = stripMarkdown(answer)
	s.Sessions.AppendExchange(req.SessionID, req.Message, answer)

	observability.GlobalMetrics().RecordDuration("chat", logger.Duration())
	logger.Info("chat completed",
		slog.Int64(observability.LogFieldDuration, logger.DurationMs()))

	return c.JSON(http.StatusOK, chatResponse{
		Success:   true,
		Response:  answer,
		SessionID: req.SessionID,
	})
}

type clearChatRequest struct {
	SessionID string `json:"session_id"`
}

// ClearChat handles POST /api/chat/clear: empties the session's history.
func (s *APIV1Service) ClearChat(c echo.Context) error {
	var req clearChatRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, apierrors.InvalidArgument("invalid request body"))
	}
	if req.SessionID == "" {
		req.SessionID = "default"
	}

	s.Sessions.Reset(req.SessionID)
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "對話記錄已清除",
	})
}

// stripMarkdown removes formatting markers the model emits despite the
// directive.
func stripMarkdown(text string) string {
	replacer := strings.NewReplacer("**", "", "###", "", "##", "")
	return replacer.Replace(text)
}
