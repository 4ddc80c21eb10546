package mdplot

import (
	"context"

	"cropwatch/internal/app/domains/entity/etplot"
	"cropwatch/internal/app/domains/entity/etprimitive"
	"cropwatch/internal/app/domains/entity/etreading"
	"cropwatch/internal/app/domains/repo/rpplot"
	"cropwatch/internal/app/domains/repo/rpreading"
)

// PlotModule 地块模块（地块 + 读数的数据操作）
type PlotModule struct {
	plotRepo    rpplot.PlotRepository
	readingRepo rpreading.ReadingRepository
}

// NewPlotModule 创建地块模块
func NewPlotModule(plotRepo rpplot.PlotRepository, readingRepo rpreading.ReadingRepository) *PlotModule {
	return &PlotModule{
		plotRepo:    plotRepo,
		readingRepo: readingRepo,
	}
}

// CreatePlot 创建地块
func (m *PlotModule) CreatePlot(ctx context.Context, plot *etplot.Plot) error {
	return m.plotRepo.Create(ctx, plot)
}

// GetPlot 查询地块
func (m *PlotModule) GetPlot(ctx context.Context, plotID int64) (*etplot.Plot, error) {
	return m.plotRepo.GetByID(ctx, plotID)
}

// ListPlots 查询地块列表
func (m *PlotModule) ListPlots(ctx context.Context, page etprimitive.Pagination) ([]*etplot.Plot, int64, error) {
	return m.plotRepo.List(ctx, page)
}

// SaveReadings 批量保存读数
func (m *PlotModule) SaveReadings(ctx context.Context, readings []*etreading.Reading) error {
	return m.readingRepo.CreateBatch(ctx, readings)
}

// LatestReadings 地块每类最新读数
func (m *PlotModule) LatestReadings(ctx context.Context, plotID int64) ([]*etreading.Reading, error) {
	return m.readingRepo.LatestByPlot(ctx, plotID)
}

// ListReadings 读数历史分页
func (m *PlotModule) ListReadings(ctx context.Context, filter etreading.Filter) ([]*etreading.Reading, int64, error) {
	return m.readingRepo.List(ctx, filter)
}

// PlotsWithReadings 有读数的地块
func (m *PlotModule) PlotsWithReadings(ctx context.Context) ([]int64, error) {
	return m.readingRepo.PlotsWithReadings(ctx)
}
