package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Status maps a service error to the HTTP status reported for it.
type Status struct {
	Err  error
	Code int
}

// ServiceError writes err with the code of the first matching status, or
// 500 when none matches.
func ServiceError(c *gin.Context, err error, statuses ...Status) {
	code := http.StatusInternalServerError
	for _, s := range statuses {
		if errors.Is(err, s.Err) {
			code = s.Code
			break
		}
	}
	ErrorResponse(c, code, err.Error())
}

// Abort stops the handler chain with an error envelope.
func Abort(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, NewResponse(false, code, gin.H{"message": message}))
}
