package controller

import (
	"ctchen222/TicTacToe-Classic/internal/api/models"
	"ctchen222/TicTacToe-Classic/internal/api/response"
	"ctchen222/TicTacToe-Classic/internal/api/service"
	"ctchen222/TicTacToe-Classic/internal/bot"
	"ctchen222/TicTacToe-Classic/internal/game"
	"net/http"

	"github.com/gin-gonic/gin"
)

// GameController exposes the rules engine and the AI over HTTP.
type GameController struct {
	gameService service.GameService
}

func NewGameController(gameService service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

// Move returns the AI's move for the posted board.
func (gc *GameController) Move(c *gin.Context) {
	var req models.MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := gc.gameService.SelectMove(c.Request.Context(), &req)
	if err != nil {
		response.ServiceError(c, err, gameErrorStatuses...)
		return
	}
	response.SuccessResponse(c, resp)
}

// Evaluate reports the outcome of the posted board.
func (gc *GameController) Evaluate(c *gin.Context) {
	var req models.EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := gc.gameService.Evaluate(c.Request.Context(), &req)
	if err != nil {
		response.ServiceError(c, err, gameErrorStatuses...)
		return
	}
	response.SuccessResponse(c, resp)
}

// gameErrorStatuses tells bad input apart from boards with no move left.
var gameErrorStatuses = []response.Status{
	{Err: game.ErrInvalidSize, Code: http.StatusBadRequest},
	{Err: game.ErrInvalidMarker, Code: http.StatusBadRequest},
	{Err: game.ErrGameFinished, Code: http.StatusUnprocessableEntity},
	{Err: bot.ErrNoLegalMove, Code: http.StatusUnprocessableEntity},
}
