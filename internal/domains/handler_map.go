package domains

import (
	"cropwatch/common/model"
	"cropwatch/internal/domains/common"
	fleetanalyze "cropwatch/internal/domains/handlers/fleet/analyze"
	plotanalyze "cropwatch/internal/domains/handlers/plot/analyze"
)

// HandlerMap 路由表（ActionType → Handler 映射）
var HandlerMap = map[string]common.HandlerServProc{
	model.ActionPlotAnalyze:  plotanalyze.NewPlotAnalyzeHandler,
	model.ActionFleetAnalyze: fleetanalyze.NewFleetAnalyzeHandler,
}
