package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"settlr/internal/auth"
	"settlr/internal/model"
	"settlr/internal/service"
)

const chatNotFound = "Chat not found"

// ThreadHandler handles tenant/owner chat requests
type ThreadHandler struct {
	threadService *service.ThreadService
}

// NewThreadHandler creates a new owner chat handler
func NewThreadHandler(threadService *service.ThreadService) *ThreadHandler {
	return &ThreadHandler{
		threadService: threadService,
	}
}

// Start handles POST /api/chats
func (h *ThreadHandler) Start(c *gin.Context) {
	identity, ok := auth.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	var req model.StartChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if _, err := uuid.Parse(req.PropertyID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid property ID"})
		return
	}

	chat, err := h.threadService.Start(c.Request.Context(), identity, req.PropertyID)
	if err != nil {
		respondError(c, err, propertyNotFound)
		return
	}
	c.JSON(http.StatusOK, chat)
}

// Get handles GET /api/chats/:id
func (h *ThreadHandler) Get(c *gin.Context) {
	identity, ok := auth.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}
	id, ok := pathID(c, "id", "chat")
	if !ok {
		return
	}

	chat, err := h.threadService.Get(c.Request.Context(), identity, id)
	if err != nil {
		respondError(c, err, chatNotFound)
		return
	}
	c.JSON(http.StatusOK, chat)
}

// Send handles POST /api/chats/:id/messages
func (h *ThreadHandler) Send(c *gin.Context) {
	identity, ok := auth.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}
	id, ok := pathID(c, "id", "chat")
	if !ok {
		return
	}

	var req model.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	msg, err := h.threadService.Send(c.Request.Context(), identity, id, req.Text)
	if err != nil {
		respondError(c, err, chatNotFound)
		return
	}
	c.JSON(http.StatusCreated, msg)
}
