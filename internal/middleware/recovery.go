package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/tickpulse/internal/domain/dto"
	"github.com/guttosm/tickpulse/internal/logger"
)

// RecoveryMiddleware converts a panic in a handler into a logged stack trace
// and a standardized 500 body.
//
//	router := gin.New()
//	router.Use(middleware.RecoveryMiddleware())
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			logger.L().Error().
				Str("request_id", c.GetString(RequestIDKey)).
				Str("panic", fmt.Sprintf("%v", r)).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")

			c.AbortWithStatusJSON(http.StatusInternalServerError,
				dto.NewErrorResponse("internal server error", fmt.Errorf("%v", r)))
		}()

		c.Next()
	}
}
