package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/heroines-gacha/fights/internal/constants"
)

// UserRequired reads the caller identity set by the gateway and injects it
// into the context.
func UserRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader(constants.HeaderUserID))
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrAuthRequired})
			return
		}
		c.Set(constants.CtxUserID, userID)
		c.Next()
	}
}

func userID(c *gin.Context) string {
	return c.GetString(constants.CtxUserID)
}
