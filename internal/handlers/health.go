package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Status(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}
