package middleware

import (
	"fmt"
	"log"
	"net/http"

	"github.com/DrowningToast/sairahut-it20-sub000/internal/ratelimit"

	"github.com/gin-gonic/gin"
)

// RateLimit counts attempts per user and scope. A limiter outage lets the
// request through.
func RateLimit(limiter ratelimit.Limiter, scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := scope + ":" + c.ClientIP()
		if user := CurrentUser(c); user != nil {
			key = fmt.Sprintf("%s:user:%d", scope, user.ID)
		}

		ok, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			log.Printf("ratelimit: %v", err)
			c.Next()
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":  "TOO_MANY_REQUESTS",
				"error": "Too many attempts, try again later",
			})
			return
		}
		c.Next()
	}
}
