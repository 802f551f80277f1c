package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the envelope every API handler writes.
type Response struct {
	Success bool `json:"success"`
	Code    int  `json:"code"`
	Extras  any  `json:"extras"`
}

func NewResponse(success bool, code int, extras any) Response {
	return Response{
		Success: success,
		Code:    code,
		Extras:  extras,
	}
}

// SuccessResponse returns a JSON response with a success message with no type limitation
func SuccessResponse(c *gin.Context, extras any) {
	c.JSON(http.StatusOK, NewResponse(true, http.StatusOK, extras))
}

// SuccessResponseList wraps items under "list" together with their count.
func SuccessResponseList[T any](c *gin.Context, items []T) {
	if items == nil {
		items = []T{}
	}
	SuccessResponse(c, gin.H{"list": items, "count": len(items)})
}

func ErrorResponse(c *gin.Context, code int, message string) {
	c.JSON(code, NewResponse(false, code, gin.H{"message": message}))
}
