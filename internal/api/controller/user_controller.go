package controller

import (
	"ctchen222/TicTacToe-Classic/internal/api/models"
	"ctchen222/TicTacToe-Classic/internal/api/response"
	"ctchen222/TicTacToe-Classic/internal/api/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// UserController handles account and guest sign-in.
type UserController struct {
	userService service.UserService
}

func NewUserController(userService service.UserService) *UserController {
	return &UserController{userService: userService}
}

// Register creates an account with its own player id.
func (uc *UserController) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := uc.userService.Register(c.Request.Context(), &req); err != nil {
		response.ServiceError(c, err, response.Status{Err: service.ErrUsernameTaken, Code: http.StatusConflict})
		return
	}
	response.SuccessResponse(c, gin.H{"message": "User created successfully"})
}

// Login exchanges credentials for a token and the account's player id.
func (uc *UserController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := uc.userService.Login(c.Request.Context(), &req)
	if err != nil {
		response.ServiceError(c, err, response.Status{Err: service.ErrInvalidCredentials, Code: http.StatusUnauthorized})
		return
	}
	response.SuccessResponse(c, resp)
}

// GuestLogin hands out a fresh player id without an account.
func (uc *UserController) GuestLogin(c *gin.Context) {
	playerID, err := uc.userService.GuestLogin(c.Request.Context())
	if err != nil {
		response.ServiceError(c, err)
		return
	}
	response.SuccessResponse(c, models.GuestResponse{PlayerID: playerID})
}
