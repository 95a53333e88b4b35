package websocket

import (
	"github.com/rs/zerolog"

	"github.com/starbookhq/starbook/internal/domain"
	"github.com/starbookhq/starbook/internal/metrics"
)

// ClientConn is one authenticated channel bound to a user identity.
type ClientConn interface {
	UserID() string
	Enqueue(event domain.Event) error
	Close()
}

type targetedEvent struct {
	userID string
	event  domain.Event
}

// Hub maps each user to at most one live channel. The map is touched only by
// the Run loop, so it needs no lock. A new registration for a user closes and
// supersedes the previous channel (last-registered wins).
type Hub struct {
	clients    map[string]ClientConn
	register   chan ClientConn
	unregister chan ClientConn
	pushes     chan targetedEvent
	broadcasts chan domain.Event
	done       chan struct{}
	logger     zerolog.Logger
}

func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]ClientConn),
		register:   make(chan ClientConn, 64),
		unregister: make(chan ClientConn, 64),
		pushes:     make(chan targetedEvent, 256),
		broadcasts: make(chan domain.Event, 64),
		done:       make(chan struct{}),
		logger:     logger.With().Str("component", "ws_hub").Logger(),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			if prev, ok := h.clients[client.UserID()]; ok {
				prev.Close()
				h.logger.Info().
					Str("user_id", client.UserID()).
					Msg("Superseding previous WebSocket channel")
			}
			h.clients[client.UserID()] = client
			metrics.WsClients.Set(float64(len(h.clients)))
			h.logger.Info().
				Str("user_id", client.UserID()).
				Int("client_count", len(h.clients)).
				Msg("WebSocket channel registered")

		case client := <-h.unregister:
			// Only drop the mapping if it still points at this channel;
			// a superseded channel must not evict its replacement.
			if current, ok := h.clients[client.UserID()]; ok && current == client {
				delete(h.clients, client.UserID())
				metrics.WsClients.Set(float64(len(h.clients)))
				h.logger.Info().
					Str("user_id", client.UserID()).
					Int("client_count", len(h.clients)).
					Msg("WebSocket channel unregistered")
			}
			client.Close()

		case te := <-h.pushes:
			client, ok := h.clients[te.userID]
			if !ok {
				// Best-effort: the durable notification row is the
				// source of truth, a missing channel is not an error.
				continue
			}
			if err := client.Enqueue(te.event); err != nil {
				h.logger.Warn().
					Err(err).
					Str("user_id", te.userID).
					Str("type", string(te.event.Type)).
					Msg("Dropping WebSocket event")
				continue
			}
			metrics.WsPushes.WithLabelValues(string(te.event.Type)).Inc()

		case event := <-h.broadcasts:
			for userID, client := range h.clients {
				if err := client.Enqueue(event); err != nil {
					h.logger.Warn().
						Err(err).
						Str("user_id", userID).
						Str("type", string(event.Type)).
						Msg("Dropping broadcast event")
					continue
				}
				metrics.WsPushes.WithLabelValues(string(event.Type)).Inc()
			}

		case <-h.done:
			for _, client := range h.clients {
				client.Close()
			}
			h.clients = make(map[string]ClientConn)
			metrics.WsClients.Set(0)
			return
		}
	}
}

// Register binds an authenticated channel to its user.
func (h *Hub) Register(client ClientConn) {
	select {
	case h.register <- client:
	case <-h.done:
		client.Close()
	}
}

// Unregister removes a channel on close.
func (h *Hub) Unregister(client ClientConn) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Push delivers an event to the user's channel, if any. Never blocks the
// caller: when the hub is saturated the event is dropped.
func (h *Hub) Push(userID string, event domain.Event) {
	select {
	case h.pushes <- targetedEvent{userID: userID, event: event}:
	default:
		h.logger.Warn().
			Str("user_id", userID).
			Str("type", string(event.Type)).
			Msg("Hub push queue full, dropping event")
	}
}

// BroadcastAll fans an event out to every connected client.
func (h *Hub) BroadcastAll(event domain.Event) {
	select {
	case h.broadcasts <- event:
	default:
		h.logger.Warn().
			Str("type", string(event.Type)).
			Msg("Hub broadcast queue full, dropping event")
	}
}

// Shutdown stops the run loop and closes every channel.
func (h *Hub) Shutdown() {
	close(h.done)
}
