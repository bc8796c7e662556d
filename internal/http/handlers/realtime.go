package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/JithuMorrison/Lingzee/internal/http/response"
	"github.com/JithuMorrison/Lingzee/internal/platform/apierr"
	"github.com/JithuMorrison/Lingzee/internal/platform/ctxutil"
	"github.com/JithuMorrison/Lingzee/internal/platform/logger"
	"github.com/JithuMorrison/Lingzee/internal/realtime"
	"github.com/JithuMorrison/Lingzee/internal/services"
)

var errClientNotFound = apierr.NotFound("client_not_found", "No active stream for this client")

type RealtimeHandler struct {
	log         *logger.Logger
	hub         *realtime.SSEHub
	chatService services.ChatService
}

func NewRealtimeHandler(log *logger.Logger, hub *realtime.SSEHub, chatService services.ChatService) *RealtimeHandler {
	return &RealtimeHandler{
		log:         log.With("handler", "RealtimeHandler"),
		hub:         hub,
		chatService: chatService,
	}
}

// GET /realtime/stream[?session_id=...]
// The first event is "connected" with the client_id used to subscribe.
func (h *RealtimeHandler) Stream(c *gin.Context) {
	userID := ctxutil.UserID(c.Request.Context())
	if userID == uuid.Nil {
		response.RespondErr(c, services.ErrUnauthenticated)
		return
	}

	var channel string
	if raw := c.Query("session_id"); raw != "" {
		sessionID, ok := parseOptionalID(raw)
		if !ok {
			response.RespondErr(c, services.ErrSessionNotFound)
			return
		}
		if _, err := h.chatService.AuthorizeSession(reqCtx(c), sessionID); err != nil {
			response.RespondErr(c, err)
			return
		}
		channel = sessionID.String()
	}

	client := h.hub.NewSSEClient(userID)
	defer h.hub.CloseClient(client)
	if channel != "" {
		h.hub.AddChannel(client, channel)
	}
	client.Outbound <- realtime.SSEMessage{
		Event: realtime.SSEEventConnected,
		Data:  gin.H{"client_id": client.ID},
	}
	h.log.Debug("SSE stream open", "user_id", userID, "client_id", client.ID)

	h.hub.ServeHTTP(c.Writer, c.Request, client)
}

type subscriptionRequest struct {
	ClientID  string `json:"client_id"`
	SessionID string `json:"session_id"`
}

// POST /realtime/subscribe
func (h *RealtimeHandler) Subscribe(c *gin.Context) {
	client, sessionID, ok := h.resolve(c)
	if !ok {
		return
	}
	if _, err := h.chatService.AuthorizeSession(reqCtx(c), sessionID); err != nil {
		response.RespondErr(c, err)
		return
	}
	h.hub.AddChannel(client, sessionID.String())
	response.RespondOK(c, gin.H{"message": "subscribed", "session_id": sessionID})
}

// POST /realtime/unsubscribe
func (h *RealtimeHandler) Unsubscribe(c *gin.Context) {
	client, sessionID, ok := h.resolve(c)
	if !ok {
		return
	}
	h.hub.RemoveChannel(client, sessionID.String())
	response.RespondOK(c, gin.H{"message": "unsubscribed", "session_id": sessionID})
}

// resolve finds the caller's own stream client and the session named in the
// body.
func (h *RealtimeHandler) resolve(c *gin.Context) (*realtime.SSEClient, uuid.UUID, bool) {
	var req subscriptionRequest
	_ = c.ShouldBindJSON(&req)
	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		response.RespondErr(c, apierr.BadRequest("missing_fields", "Missing client_id or session_id"))
		return nil, uuid.Nil, false
	}
	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		response.RespondErr(c, apierr.BadRequest("missing_fields", "Missing client_id or session_id"))
		return nil, uuid.Nil, false
	}
	client, found := h.hub.Client(clientID)
	if !found || client.UserID != ctxutil.UserID(c.Request.Context()) {
		response.RespondErr(c, errClientNotFound)
		return nil, uuid.Nil, false
	}
	return client, sessionID, true
}
