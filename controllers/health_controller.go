package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/vinitha-rv/library-backend/common/errors"
)

type HealthController struct {
	db      Pinger
	service string
}

func NewHealthController(db Pinger, service string) *HealthController {
	return &HealthController{db: db, service: service}
}

// Health handles GET /health
func (hc *HealthController) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := hc.db.Ping(ctx); err != nil {
		apperrors.Respond(c, apperrors.Unavailable("Database unavailable", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": hc.service})
}
