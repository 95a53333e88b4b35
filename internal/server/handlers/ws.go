package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	gws "github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/starbookhq/starbook/internal/server/websocket"
	"github.com/starbookhq/starbook/pkg/config"
)

type WsHandler struct {
	hub      *websocket.Hub
	tokens   *websocket.TokenStore
	upgrader gws.Upgrader
	cfg      config.WebSocketConfig
	logger   zerolog.Logger
}

func NewWsHandler(hub *websocket.Hub, tokens *websocket.TokenStore, cfg config.WebSocketConfig, logger zerolog.Logger) *WsHandler {
	readBuf, writeBuf := cfg.ReadBufferSize, cfg.WriteBufferSize
	if readBuf == 0 {
		readBuf = 1024
	}
	if writeBuf == 0 {
		writeBuf = 1024
	}

	return &WsHandler{
		hub:    hub,
		tokens: tokens,
		cfg:    cfg,
		upgrader: gws.Upgrader{
			ReadBufferSize:  readBuf,
			WriteBufferSize: writeBuf,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger: logger.With().Str("component", "ws_handler").Logger(),
	}
}

// MintToken issues a short-lived, single-use handshake token bound to the
// authenticated caller. The client presents it in the auth frame on /ws.
func (h *WsHandler) MintToken(c *gin.Context) {
	claim, ok := currentClaim(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "not authenticated"})
		return
	}

	token := h.tokens.Mint(claim.UserID.String())
	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"expires_in": int(h.cfg.TokenTTL / time.Second),
	})
}

type authFrame struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

type authResult struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
}

// HandleConnection upgrades, then requires an auth frame carrying a valid
// handshake token before the channel receives any pushes. Unauthenticated
// connections are closed at the deadline.
func (h *WsHandler) HandleConnection(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}

	conn.SetReadDeadline(time.Now().Add(h.cfg.AuthDeadline))

	var frame authFrame
	if err := conn.ReadJSON(&frame); err != nil || frame.Type != "auth" {
		conn.WriteJSON(authResult{Type: "auth_error", Message: "auth frame required"})
		conn.Close()
		return
	}

	userID, ok := h.tokens.Claim(frame.Token)
	if !ok {
		conn.WriteJSON(authResult{Type: "auth_error", Message: "invalid or expired token"})
		conn.Close()
		return
	}

	if err := conn.WriteJSON(authResult{Type: "auth_success"}); err != nil {
		conn.Close()
		return
	}
	conn.SetReadDeadline(time.Time{})

	client := websocket.NewClient(userID, conn, h.logger)
	h.hub.Register(client)
	client.Serve(h.hub)
}
