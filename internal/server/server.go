package server

import (
	"context"
	"ctchen222/TicTacToe-Classic/internal/api/controller"
	"ctchen222/TicTacToe-Classic/internal/game"
	"ctchen222/TicTacToe-Classic/internal/hub/types"
	"ctchen222/TicTacToe-Classic/internal/player"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("server")

// Registrar accepts connections for the hub.
type Registrar interface {
	Register() chan<- *types.RegistrationRequest
}

// Controllers are the HTTP handlers mounted under /api.
type Controllers struct {
	User  *controller.UserController
	Game  *controller.GameController
	Stats *controller.StatsController
	// Auth guards the /api/me routes.
	Auth gin.HandlerFunc
}

type Server struct {
	hub      Registrar
	engine   *gin.Engine
	upgrader websocket.Upgrader
}

func NewServer(h Registrar, staticDir string, controllers Controllers) *Server {
	s := &Server{
		hub:    h,
		engine: gin.New(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
	s.engine.Use(gin.Recovery())
	s.registerHandlers(staticDir, controllers)
	return s
}

// Engine returns the HTTP handler serving the API, the websocket and the web client.
func (s *Server) Engine() http.Handler {
	return s.engine
}

func (s *Server) registerHandlers(staticDir string, c Controllers) {
	s.engine.GET("/ws", s.handleWebSocket)

	api := s.engine.Group("/api")
	auth := api.Group("/auth")
	auth.POST("/register", c.User.Register)
	auth.POST("/login", c.User.Login)
	auth.POST("/guest", c.User.GuestLogin)

	api.POST("/ai/move", c.Game.Move)
	api.POST("/board/evaluate", c.Game.Evaluate)

	api.GET("/players/:playerId/stats", c.Stats.PlayerStats)
	api.GET("/players/:playerId/sessions", c.Stats.PlayerSessions)
	api.GET("/sessions/:sessionId", c.Stats.Session)

	me := api.Group("/me", c.Auth)
	me.GET("/stats", c.Stats.MyStats)
	me.DELETE("/sessions/:sessionId", c.Stats.DeleteMySession)

	s.engine.NoRoute(gin.WrapH(http.FileServer(http.Dir(staticDir))))
}

// handleWebSocket's only responsibility is to upgrade the connection and
// pass a registration request to the hub. Which session the connection
// joins is decided by the hub.
func (s *Server) handleWebSocket(c *gin.Context) {
	r := c.Request
	ctx, span := tracer.Start(r.Context(), "server.handleWebSocket", trace.WithAttributes(
		attribute.String("http.url", r.URL.String()),
		attribute.String("http.method", r.Method),
	))
	defer span.End()

	query := r.URL.Query()
	settings, err := parseSettings(query)
	if err != nil {
		slog.WarnContext(ctx, "Rejected websocket settings", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid settings")
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	conn, err := s.upgrader.Upgrade(c.Writer, r, nil)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to upgrade connection", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to upgrade connection")
		return
	}

	// Get playerID from URL, or generate a new one.
	playerID := query.Get("playerId")
	if playerID == "" {
		playerID = uuid.New().String()
	}
	sessionID := query.Get("sessionId")
	span.SetAttributes(attribute.String("player.id", playerID), attribute.String("session.id", sessionID))

	req := &types.RegistrationRequest{
		Player:    player.NewPlayer(playerID, conn),
		SessionID: sessionID,
		Settings:  settings,
		// The request context ends with this handler; keep only its trace.
		Ctx: context.WithoutCancel(ctx),
	}
	s.hub.Register() <- req
}

// parseSettings reads new-session settings from the query. It returns nil
// when none of the settings parameters is present.
func parseSettings(query url.Values) (*game.Settings, error) {
	keys := []string{"boardSize", "gameMode", "aiDifficulty", "playerMarker"}
	present := false
	for _, k := range keys {
		if query.Has(k) {
			present = true
			break
		}
	}
	if !present {
		return nil, nil
	}

	settings := game.DefaultSettings()
	if raw := query.Get("boardSize"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: board size %q", game.ErrInvalidSetting, raw)
		}
		settings.BoardSize = size
	}
	if raw := query.Get("gameMode"); raw != "" {
		settings.Mode = game.GameMode(raw)
	}
	if raw := query.Get("aiDifficulty"); raw != "" {
		settings.Difficulty = game.Difficulty(raw)
	}
	if raw := query.Get("playerMarker"); raw != "" {
		settings.PlayerMarker = game.PlayerMark(raw)
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &settings, nil
}
