package svplot

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"cropwatch/internal/app/domains/entity/etplot"
	"cropwatch/internal/app/domains/entity/etprimitive"
	"cropwatch/internal/app/domains/entity/etreading"
	"cropwatch/internal/app/domains/modules/mdplot"
	"cropwatch/internal/app/pkg/errorx"
	"cropwatch/internal/metrics"
)

// CreatePlotInput 创建地块参数
type CreatePlotInput struct {
	Name        string
	Description string
	Location    string
	CropType    string
	Size        float64
}

// ReadingInput 单条读数参数
type ReadingInput struct {
	SensorType string
	Value      float64
	Unit       string
	Timestamp  time.Time // 零值取当前时间
}

// PlotService 地块服务：地块管理与读数接入
type PlotService struct {
	plotModule *mdplot.PlotModule
}

// NewPlotService 创建地块服务实例
func NewPlotService(plotModule *mdplot.PlotModule) *PlotService {
	return &PlotService{plotModule: plotModule}
}

// CreatePlot 创建地块
func (s *PlotService) CreatePlot(ctx context.Context, input CreatePlotInput) (*etplot.Plot, error) {
	plot, err := etplot.NewPlot(input.Name, input.Location, input.CropType, input.Size, input.Description)
	if err != nil {
		return nil, errorx.NewBusinessError(http.StatusBadRequest, err.Error())
	}
	if err := s.plotModule.CreatePlot(ctx, plot); err != nil {
		return nil, fmt.Errorf("save plot failed: %w", err)
	}
	return plot, nil
}

// GetPlot 查询地块，不存在返回 ErrPlotNotFound
func (s *PlotService) GetPlot(ctx context.Context, plotID int64) (*etplot.Plot, error) {
	plot, err := s.plotModule.GetPlot(ctx, plotID)
	if err != nil {
		return nil, fmt.Errorf("get plot failed: %w", err)
	}
	if plot == nil {
		return nil, errorx.ErrPlotNotFound
	}
	return plot, nil
}

// ListPlots 查询地块列表
func (s *PlotService) ListPlots(ctx context.Context, page etprimitive.Pagination) ([]*etplot.Plot, etprimitive.Pagination, error) {
	page = page.Normalize()
	plots, total, err := s.plotModule.ListPlots(ctx, page)
	if err != nil {
		return nil, page, fmt.Errorf("list plots failed: %w", err)
	}
	page.Total = total
	return plots, page, nil
}

// IngestReadings 写入一批读数
// 任一读数非法则整批拒绝
func (s *PlotService) IngestReadings(ctx context.Context, plotID int64, inputs []ReadingInput, source string) ([]*etreading.Reading, error) {
	if len(inputs) == 0 {
		return nil, errorx.NewBusinessError(http.StatusBadRequest, "readings cannot be empty")
	}
	if _, err := s.GetPlot(ctx, plotID); err != nil {
		return nil, err
	}

	readings := make([]*etreading.Reading, 0, len(inputs))
	for i, in := range inputs {
		r, err := etreading.NewReading(plotID, in.SensorType, in.Value, in.Unit, source, in.Timestamp)
		if err != nil {
			return nil, errorx.NewBusinessError(http.StatusBadRequest, fmt.Sprintf("readings[%d]: %v", i, err))
		}
		readings = append(readings, r)
	}

	if err := s.plotModule.SaveReadings(ctx, readings); err != nil {
		return nil, fmt.Errorf("save readings failed: %w", err)
	}
	metrics.ReadingsIngested.WithLabelValues(readings[0].Source).Add(float64(len(readings)))
	return readings, nil
}

// ListReadings 地块读数历史，地块不存在返回 ErrPlotNotFound
func (s *PlotService) ListReadings(ctx context.Context, filter etreading.Filter) ([]*etreading.Reading, etprimitive.Pagination, error) {
	page := filter.Pagination.Normalize()
	if _, err := s.GetPlot(ctx, filter.PlotID); err != nil {
		return nil, page, err
	}
	filter.Pagination = page
	readings, total, err := s.plotModule.ListReadings(ctx, filter)
	if err != nil {
		return nil, page, fmt.Errorf("list readings failed: %w", err)
	}
	page.Total = total
	return readings, page, nil
}

// LatestReadings 地块每类最新读数
func (s *PlotService) LatestReadings(ctx context.Context, plotID int64) ([]*etreading.Reading, error) {
	if _, err := s.GetPlot(ctx, plotID); err != nil {
		return nil, err
	}
	readings, err := s.plotModule.LatestReadings(ctx, plotID)
	if err != nil {
		return nil, fmt.Errorf("query latest readings failed: %w", err)
	}
	return readings, nil
}
