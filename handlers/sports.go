package handlers

import (
	"net/http"

	"gameon/sports"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListSports(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sports": sports.All()})
}
