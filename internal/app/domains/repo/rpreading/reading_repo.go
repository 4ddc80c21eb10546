package rpreading

import (
	"context"

	"cropwatch/internal/app/domains/entity/etreading"
)

// ReadingRepository 传感器读数仓储接口
type ReadingRepository interface {
	// CreateBatch 批量写入读数
	CreateBatch(ctx context.Context, readings []*etreading.Reading) error

	// LatestByPlot 每个类别的最新一条读数，无读数时返回空切片
	LatestByPlot(ctx context.Context, plotID int64) ([]*etreading.Reading, error)

	// List 读数历史分页查询，返回当前页与总数
	List(ctx context.Context, filter etreading.Filter) ([]*etreading.Reading, int64, error)

	// PlotsWithReadings 有读数的地块 ID（升序）
	PlotsWithReadings(ctx context.Context) ([]int64, error)
}
