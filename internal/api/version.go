package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/heroines-gacha/fights/internal/version"
)

// Version returns build and VCS metadata injected at build time.
func Version(c *gin.Context) {
	c.JSON(http.StatusOK, version.Get())
}
