package routers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"cropwatch/internal/app/pkg/ginx"
	"cropwatch/internal/app/pkg/logger"
	"cropwatch/internal/app/server/handlers/alert"
	"cropwatch/internal/app/server/handlers/analysis"
	"cropwatch/internal/app/server/handlers/plot"
	"cropwatch/internal/app/server/handlers/reading"
	"cropwatch/internal/app/server/middlewares"
)

// Handlers 路由依赖的处理器
type Handlers struct {
	Plot     *plot.PlotHandler
	Reading  *reading.ReadingHandler
	Analysis *analysis.AnalysisHandler
	Alert    *alert.AlertHandler
	AlertWS  gin.HandlerFunc // nil 时不注册 /ws/alerts
}

// SetupRoutes 配置所有路由，使用 Route Group 分类
func SetupRoutes(h Handlers, corsOrigins []string, log logger.Logger) (*gin.Engine, error) {
	if err := ginx.RegisterValidators(); err != nil {
		return nil, err
	}

	r := gin.New()

	r.Use(middlewares.Recovery(log))
	r.Use(middlewares.CORS(corsOrigins))
	r.Use(middlewares.Logger(log))
	r.Use(middlewares.ErrorHandler(log))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "cropwatch",
			"message": "Service is running",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	{
		plots := v1.Group("/plots")
		{
			plots.POST("", h.Plot.Create)
			plots.GET("", h.Plot.List)
			plots.POST("/analyze", h.Analysis.AnalyzeFleet)
			plots.GET("/:id", h.Plot.Get)
			plots.GET("/:id/readings", h.Plot.Readings)
			plots.GET("/:id/readings/latest", h.Plot.LatestReadings)
			plots.POST("/:id/analyze", h.Analysis.AnalyzePlot)
			plots.GET("/:id/alerts", h.Alert.PlotAlerts)
		}

		v1.POST("/readings", h.Reading.Ingest)

		alerts := v1.Group("/alerts")
		{
			alerts.GET("", h.Alert.List)
			alerts.GET("/summary", h.Alert.Summary)
			alerts.GET("/:id", h.Alert.Get)
			alerts.POST("/:id/resolve", h.Alert.Resolve)
			alerts.POST("/:id/acknowledge", h.Alert.Acknowledge)
		}

		if h.AlertWS != nil {
			v1.GET("/ws/alerts", h.AlertWS)
		}
	}

	return r, nil
}
