package controller

import (
	"ctchen222/TicTacToe-Classic/internal/analytics"
	"ctchen222/TicTacToe-Classic/internal/api/middleware"
	"ctchen222/TicTacToe-Classic/internal/api/response"
	"ctchen222/TicTacToe-Classic/internal/api/service"
	"ctchen222/TicTacToe-Classic/internal/game"
	"ctchen222/TicTacToe-Classic/internal/repository"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// StatsController serves game results and saved sessions.
type StatsController struct {
	statsService service.StatsService
}

func NewStatsController(statsService service.StatsService) *StatsController {
	return &StatsController{statsService: statsService}
}

// PlayerStats returns the report over a player's recorded games, optionally
// limited to one board size with ?size=N.
func (sc *StatsController) PlayerStats(c *gin.Context) {
	sc.writeReport(c, c.Param("playerId"))
}

// MyStats is PlayerStats for the authenticated player.
func (sc *StatsController) MyStats(c *gin.Context) {
	sc.writeReport(c, c.GetString(middleware.PlayerIDKey))
}

func (sc *StatsController) writeReport(c *gin.Context, playerID string) {
	size := 0
	if raw := c.Query("size"); raw != "" {
		var err error
		if size, err = strconv.Atoi(raw); err != nil {
			response.ErrorResponse(c, http.StatusBadRequest, "size must be a number")
			return
		}
	}

	report, err := sc.statsService.PlayerReport(c.Request.Context(), playerID, size)
	if err != nil {
		response.ServiceError(c, err, response.Status{Err: game.ErrInvalidSize, Code: http.StatusBadRequest})
		return
	}
	response.SuccessResponse(c, report)
}

// PlayerSessions lists a player's saved sessions, newest first.
func (sc *StatsController) PlayerSessions(c *gin.Context) {
	sessions, err := sc.statsService.PlayerSessions(c.Request.Context(), c.Param("playerId"))
	if err != nil {
		response.ServiceError(c, err)
		return
	}
	response.SuccessResponseList(c, sessions)
}

// Session returns one saved session with the report over its history.
func (sc *StatsController) Session(c *gin.Context) {
	session, err := sc.statsService.Session(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		response.ServiceError(c, err, response.Status{Err: repository.ErrSessionNotFound, Code: http.StatusNotFound})
		return
	}

	response.SuccessResponse(c, gin.H{
		"session": session,
		"report":  analytics.BuildReport(session.State.Stats, session.State.History),
	})
}

// DeleteMySession removes one of the authenticated player's saved sessions.
func (sc *StatsController) DeleteMySession(c *gin.Context) {
	sessionID := c.Param("sessionId")
	err := sc.statsService.DeleteSession(c.Request.Context(), c.GetString(middleware.PlayerIDKey), sessionID)
	if err != nil {
		response.ServiceError(c, err,
			response.Status{Err: repository.ErrSessionNotFound, Code: http.StatusNotFound},
			response.Status{Err: service.ErrSessionForbidden, Code: http.StatusForbidden},
		)
		return
	}
	response.SuccessResponse(c, gin.H{"deleted": sessionID})
}
