package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/starbookhq/starbook/internal/server/handlers"
	"github.com/starbookhq/starbook/internal/server/websocket"
	"github.com/starbookhq/starbook/pkg/config"
)

type Server struct {
	Handlers   *handlers.Handlers
	Cfg        *config.Config
	Logger     zerolog.Logger
	Router     *gin.Engine
	httpServer *http.Server
	WsHub      *websocket.Hub
	WsTokens   *websocket.TokenStore
}

func New(cfg *config.Config, h *handlers.Handlers, logger zerolog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	return &Server{
		Cfg:      cfg,
		Handlers: h,
		Logger:   logger,
		Router:   gin.New(),
		WsHub:    h.WsHub,
		WsTokens: h.WsTokens,
	}
}

func (s *Server) SetupRouter() {
	s.Handlers.SetupHandlers(s.Router)
}

func (s *Server) Start() {
	s.SetupRouter()

	go s.WsHub.Run()

	s.httpServer = &http.Server{
		Addr:         s.Cfg.Server.Host + ":" + s.Cfg.Server.Port,
		Handler:      s.Router,
		ReadTimeout:  20 * time.Second,
		WriteTimeout: 20 * time.Second,
	}

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, syscall.SIGINT, syscall.SIGTERM)

	s.Logger.Info().Msgf("Starting server on %s", s.httpServer.Addr)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.Logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-stopChan
	s.Logger.Info().Msg("Shutdown signal received, shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.Logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	s.WsHub.Shutdown()
	s.WsTokens.Close()

	s.Logger.Info().Msg("Server exited gracefully")
}
