// Package server exposes the analysis pipeline over HTTP.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/inertlabs/tokenguard/internal/engine"
)

type apiResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, apiResponse{Code: 0, Message: "ok", Data: data})
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, apiResponse{Code: status, Message: message})
}

type Handler struct {
	Engine *engine.Engine
	Log    *zap.Logger
}

func (h *Handler) Register(r *gin.Engine) {
	r.GET("/healthz", h.health)
	v1 := r.Group("/api/v1")
	v1.GET("/analyze/:address", h.analyze)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) analyze(c *gin.Context) {
	address := c.Param("address")

	analysis, err := h.Engine.Analyze(c.Request.Context(), address)
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	ok(c, analysis)
}

// NewRouter builds the gin engine with routes registered.
func NewRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	h.Register(r)
	return r
}
