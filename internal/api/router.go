package api

import (
	"github.com/gin-gonic/gin"

	"fattybrewing/internal/brewhouse"
	"fattybrewing/internal/metrics"
)

// NewRouter wires the container API. m may be nil, in which case /metrics is
// not served.
func NewRouter(svc *brewhouse.Service, m *metrics.Metrics) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	h := NewHandler(svc)

	router.GET("/health", h.Health)
	if m != nil {
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}

	api := router.Group("/api/v1")
	{
		api.POST("/containers", h.CreateContainer)
		api.GET("/containers", h.ListContainers)
		api.GET("/containers/:id", h.GetContainer)

		api.POST("/containers/:id/contents", h.AddContent)
		api.POST("/containers/:id/contents/remove", h.RemoveContent)
		api.POST("/containers/:id/heat", h.Heat)
		api.POST("/containers/:id/fill", h.FillTo)

		api.POST("/containers/:id/wort", h.ConvertToWort)
		api.POST("/containers/:id/ferment", h.Ferment)
		api.POST("/containers/:id/kegs", h.IntoKegs)
		api.POST("/containers/:id/transfer", h.Transfer)
	}

	return router
}
