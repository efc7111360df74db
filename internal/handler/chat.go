package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"settlr/internal/model"
	"settlr/internal/service"
)

// ChatHandler serves the AI assistant endpoints
type ChatHandler struct {
	chatService *service.ChatService
}

// NewChatHandler creates a new assistant handler
func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
	}
}

// Chat handles POST /api/chat
func (h *ChatHandler) Chat(c *gin.Context) {
	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, chatFailure(fmt.Errorf("%w: %v", service.ErrMalformedInput, err)))
		return
	}

	result, err := h.chatService.Advance(c.Request.Context(), req.Messages)
	if err != nil {
		c.JSON(chatStatus(err), chatFailure(err))
		return
	}

	c.JSON(http.StatusOK, model.ChatResponse{Success: true, ChatResult: result})
}

// ChatStream handles POST /api/chat/stream - SSE streaming assistant turn
func (h *ChatHandler) ChatStream(c *gin.Context) {
	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, chatFailure(fmt.Errorf("%w: %v", service.ErrMalformedInput, err)))
		return
	}

	// Reject bad transcripts as plain JSON before switching to SSE
	if err := service.ValidateTranscript(req.Messages); err != nil {
		c.JSON(http.StatusBadRequest, chatFailure(err))
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Streaming not supported"})
		return
	}

	// Set SSE headers
	c.Header("Content-Type", "text/event-stream; charset=utf-8")
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	sendSSE(c, "start", map[string]any{"status": "Thinking..."})
	flusher.Flush()

	result, err := h.chatService.AdvanceStream(c.Request.Context(), req.Messages, func(thinking, content string) error {
		if thinking != "" {
			sendSSE(c, "thinking", map[string]any{"content": thinking})
		}
		if content != "" {
			sendSSE(c, "content", map[string]any{"content": content})
		}
		flusher.Flush()
		return c.Request.Context().Err()
	})

	if err != nil {
		sendSSE(c, "error", chatFailure(err))
		flusher.Flush()
		return
	}

	sendSSE(c, "result", model.ChatResponse{Success: true, ChatResult: result})
	sendSSE(c, "done", nil)
	flusher.Flush()
}

func chatStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrMalformedInput):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrCompletionUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// chatFailure builds the error envelope. Provider bodies and storage errors
// stay in the logs.
func chatFailure(err error) gin.H {
	switch {
	case errors.Is(err, service.ErrMalformedInput):
		return gin.H{"success": false, "message": "Invalid messages format", "error": err.Error()}
	case errors.Is(err, service.ErrCompletionUnavailable):
		logrus.WithError(err).Warn("⚠️ Assistant turn failed")
		return gin.H{"success": false, "message": "AI service is unavailable, please try again", "error": service.ErrCompletionUnavailable.Error()}
	default:
		logrus.WithError(err).Error("❌ Chat error")
		return gin.H{"success": false, "message": "Failed to get AI response", "error": "internal error"}
	}
}

// sendSSE sends a Server-Sent Event
func sendSSE(c *gin.Context, event string, data any) {
	if data != nil {
		jsonData, err := json.Marshal(data)
		if err != nil {
			fmt.Fprintf(c.Writer, "event: error\ndata: {\"error\": \"JSON marshal failed\"}\n\n")
			return
		}
		fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", event, string(jsonData))
	} else {
		fmt.Fprintf(c.Writer, "event: %s\ndata: {}\n\n", event)
	}
}
