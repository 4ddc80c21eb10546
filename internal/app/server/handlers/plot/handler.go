package plot

import "cropwatch/internal/app/domains/services/svplot"

// PlotHandler 地块 HTTP 处理器
type PlotHandler struct {
	plotService *svplot.PlotService
}

// NewPlotHandler 创建地块处理器实例
func NewPlotHandler(plotService *svplot.PlotService) *PlotHandler {
	return &PlotHandler{
		plotService: plotService,
	}
}
