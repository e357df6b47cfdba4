package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// CacheControl lets the console cache a response privately for maxAgeSeconds.
// Zero or less marks it no-store.
func CacheControl(maxAgeSeconds int) gin.HandlerFunc {
	value := "no-store"
	if maxAgeSeconds > 0 {
		value = fmt.Sprintf("private, max-age=%d", maxAgeSeconds)
	}
	return func(c *gin.Context) {
		c.Header("Cache-Control", value)
		c.Next()
	}
}
