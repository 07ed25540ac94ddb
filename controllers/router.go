package controllers

import (
	"log/slog"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Rakib5627/mixer-machine-server/middlewares"
)

// NewRouter wires every route. Any origin may call the API.
func NewRouter(ctl *Controller, hub *Hub, logger *slog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(
		middlewares.RequestID(),
		middlewares.Logger(logger),
		middlewares.Metrics(),
		middlewares.Recovery(),
		cors.New(cors.Config{
			AllowAllOrigins: true,
			AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:    []string{"Origin", "Content-Type", middlewares.RequestIDHeader},
			ExposeHeaders:   []string{middlewares.RequestIDHeader},
		}),
	)

	r.GET("/", ctl.Root)
	r.GET("/health/ready", ctl.Ready)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/ws", hub.HandleWebSocket)

	r.GET("/users", ctl.GetUsers)
	r.POST("/users", ctl.CreateUser)

	machine := r.Group("/api/machine01")
	machine.POST("/presets", ctl.CreatePreset)
	machine.GET("/presets", ctl.GetPresets)
	machine.PUT("/presets/:id", ctl.UpdatePreset)
	machine.DELETE("/presets/:id", ctl.DeletePreset)
	machine.POST("/history", ctl.CreateHistory)
	machine.GET("/history", ctl.GetHistory)

	r.POST("/api/data", ctl.ReceiveData)
	r.GET("/api/data", ctl.GetLatestData)
	r.GET("/api/mixer/control", ctl.GetMixerState)
	r.POST("/api/mixer/control", ctl.SetMixerState)

	return r
}
