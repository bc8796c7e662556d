package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/JithuMorrison/Lingzee/internal/http/response"
	"github.com/JithuMorrison/Lingzee/internal/platform/apierr"
	"github.com/JithuMorrison/Lingzee/internal/services"
)

type AssistantHandler struct {
	chatService services.ChatService
}

func NewAssistantHandler(chatService services.ChatService) *AssistantHandler {
	return &AssistantHandler{chatService: chatService}
}

// POST /assistant/session
// body: { "course_id": "..." }
func (h *AssistantHandler) StartSession(c *gin.Context) {
	var req struct {
		CourseID string `json:"course_id"`
	}
	_ = c.ShouldBindJSON(&req)
	courseID, ok := parseOptionalID(req.CourseID)
	if !ok {
		response.RespondErr(c, apierr.BadRequest("invalid_request", "course_id must be a uuid"))
		return
	}
	session, messages, err := h.chatService.StartSession(reqCtx(c), courseID)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"session_id": session.ID, "messages": messages})
}

// GET /assistant/session/:id/messages
func (h *AssistantHandler) Messages(c *gin.Context) {
	sessionID, ok := pathID(c, "id", services.ErrSessionNotFound)
	if !ok {
		return
	}
	messages, err := h.chatService.Messages(reqCtx(c), sessionID)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"session_id": sessionID, "messages": messages})
}

// POST /assistant/message
// body: { "session_id": "...", "message": "..." }
// The reply arrives as an assistant_message event on the session channel.
func (h *AssistantHandler) SendMessage(c *gin.Context) {
	var req struct {
		SessionID string `json:"session_id"`
		Message   string `json:"message"`
	}
	_ = c.ShouldBindJSON(&req)
	sessionID, ok := parseOptionalID(req.SessionID)
	if !ok {
		response.RespondErr(c, services.ErrSessionNotFound)
		return
	}
	if _, err := h.chatService.Send(reqCtx(c), sessionID, req.Message); err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "Message sent"})
}
