package api

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"safepath/internal/core"
	"safepath/internal/domain/model"
	"safepath/internal/render"
)

type Handler struct {
	controller *core.ViewController
	scene      *render.Scene
	log        *zap.Logger
}

func NewHandler(controller *core.ViewController, scene *render.Scene, log *zap.Logger) *Handler {
	return &Handler{controller: controller, scene: scene, log: log}
}

type RouteRequest struct {
	StartAddress string `json:"start_address"`
	EndAddress   string `json:"end_address"`
	CommuteMode  string `json:"commute_mode"`
}

type SelectRequest struct {
	Index *int `json:"index" binding:"required"`
}

type VisibilityRequest struct {
	Visible *bool `json:"visible" binding:"required"`
}

type SuggestionInputRequest struct {
	Text string `json:"text"`
}

type SuggestionResponse struct {
	Field      string   `json:"field"`
	Candidates []string `json:"candidates"`
}

// Router wires the page endpoints. allowOrigins of ["*"] allows any origin.
func (h *Handler) Router(allowOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), h.requestLogger())

	config := cors.DefaultConfig()
	if len(allowOrigins) == 0 || (len(allowOrigins) == 1 && allowOrigins[0] == "*") {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = allowOrigins
	}
	config.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	r.Use(cors.New(config))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	api := r.Group("/api")
	api.POST("/routes", h.SubmitRoutes)
	api.POST("/routes/select", h.SelectRoute)
	api.POST("/hazards/visibility", h.SetHazardVisibility)
	api.POST("/suggestions/:field", h.SuggestionInput)
	api.GET("/suggestions/:field", h.GetSuggestions)
	api.GET("/view", h.GetView)
	api.GET("/map", h.GetMap)
	return r
}

func (h *Handler) SubmitRoutes(c *gin.Context) {
	var req RouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	err := h.controller.Submit(c.Request.Context(), req.StartAddress, req.EndAddress, model.CommuteMode(req.CommuteMode))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, h.controller.Snapshot())
	case errors.Is(err, model.ErrValidation):
		c.JSON(http.StatusBadRequest, h.controller.Snapshot())
	case errors.Is(err, model.ErrSuperseded):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadGateway, h.controller.Snapshot())
	}
}

func (h *Handler) SelectRoute(c *gin.Context) {
	var req SelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "index is required"})
		return
	}

	if err := h.controller.Select(*req.Index); err != nil {
		if errors.Is(err, model.ErrOutOfRange) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.controller.Snapshot())
}

func (h *Handler) SetHazardVisibility(c *gin.Context) {
	var req VisibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "visible is required"})
		return
	}
	h.controller.SetHazardsVisible(*req.Visible)
	c.JSON(http.StatusOK, h.controller.Snapshot())
}

func (h *Handler) SuggestionInput(c *gin.Context) {
	field := c.Param("field")
	var req SuggestionInputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := h.controller.OnSuggestionInput(field, req.Text); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"field": field})
}

func (h *Handler) GetSuggestions(c *gin.Context) {
	field := c.Param("field")
	candidates, err := h.controller.Suggestions(field)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if candidates == nil {
		candidates = []string{}
	}
	c.JSON(http.StatusOK, SuggestionResponse{Field: field, Candidates: candidates})
}

func (h *Handler) GetView(c *gin.Context) {
	c.JSON(http.StatusOK, h.controller.Snapshot())
}

func (h *Handler) GetMap(c *gin.Context) {
	data, err := h.scene.FeatureCollection().MarshalJSON()
	if err != nil {
		h.log.Error("encode map", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to encode map"})
		return
	}
	c.Data(http.StatusOK, "application/geo+json", data)
}

func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		h.log.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()))
	}
}
