package request

import (
	"time"

	"cropwatch/common/model"
	"cropwatch/internal/app/domains/entity/etalert"
	"cropwatch/internal/app/domains/entity/etprimitive"
	"cropwatch/internal/app/domains/entity/etreading"
	"cropwatch/internal/app/domains/services/svplot"
)

// ToInput 转换为服务层参数
func (r *CreatePlotRequest) ToInput() svplot.CreatePlotInput {
	return svplot.CreatePlotInput{
		Name:        r.Name,
		Description: r.Description,
		Location:    r.Location,
		CropType:    r.CropType,
		Size:        r.Size,
	}
}

// ToPagination 转换为分页参数
func (q PageQuery) ToPagination() etprimitive.Pagination {
	return etprimitive.Pagination{Page: q.Page, Limit: q.Limit}.Normalize()
}

// ToInputs 转换为服务层读数，单条时间戳优先于批次时间戳
func (r *IngestReadingsRequest) ToInputs() []svplot.ReadingInput {
	var batchTS time.Time
	if r.Timestamp != nil {
		batchTS = *r.Timestamp
	}

	inputs := make([]svplot.ReadingInput, 0, len(r.Readings))
	for _, item := range r.Readings {
		ts := batchTS
		if item.Timestamp != nil {
			ts = *item.Timestamp
		}
		var value float64
		if item.Value != nil {
			value = *item.Value
		}
		inputs = append(inputs, svplot.ReadingInput{
			SensorType: item.SensorType,
			Value:      value,
			Unit:       item.Unit,
			Timestamp:  ts,
		})
	}
	return inputs
}

// ToFilter 转换为告警查询条件
func (q *ListAlertsQuery) ToFilter(now time.Time) etalert.Filter {
	filter := etalert.Filter{
		PlotID:         q.PlotID,
		UnresolvedOnly: q.Unresolved,
		Pagination:     q.PageQuery.ToPagination(),
	}
	if s, ok := model.ParseSeverity(q.Severity); ok {
		filter.Severity = s
	}
	if q.Hours > 0 {
		filter.Since = now.Add(-time.Duration(q.Hours) * time.Hour)
	}
	return filter
}

// ToFilter 转换为读数历史查询条件
func (q ListReadingsQuery) ToFilter(plotID int64) etreading.Filter {
	category, _ := model.ParseSensorAlias(q.SensorType)
	return etreading.Filter{
		PlotID:     plotID,
		Category:   category,
		Ordering:   q.Ordering,
		Pagination: q.PageQuery.ToPagination(),
	}
}

// WaitDuration Smart Wait 时长
func (q AnalyzeQuery) WaitDuration() time.Duration {
	if q.Wait <= 0 {
		return 0
	}
	return time.Duration(q.Wait) * time.Second
}
