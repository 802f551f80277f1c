package middleware

import (
	"ctchen222/TicTacToe-Classic/internal/api/response"
	"ctchen222/TicTacToe-Classic/internal/api/service"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// PlayerIDKey holds the authenticated player's id in the gin context.
	PlayerIDKey = "playerId"
	// UsernameKey holds the authenticated username in the gin context.
	UsernameKey = "username"
)

// Auth accepts requests carrying "Authorization: Bearer <token>" with a
// token issued by userService.
func Auth(userService service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			response.Abort(c, http.StatusUnauthorized, "missing bearer token")
			return
		}

		claims, err := userService.ParseToken(tokenString)
		if err != nil {
			slog.WarnContext(c.Request.Context(), "Rejected token", "error", err)
			response.Abort(c, http.StatusUnauthorized, service.ErrInvalidToken.Error())
			return
		}

		c.Set(PlayerIDKey, claims.PlayerID)
		c.Set(UsernameKey, claims.Username)
		c.Next()
	}
}
