package rpplot

import (
	"context"

	"cropwatch/internal/app/domains/entity/etplot"
	"cropwatch/internal/app/domains/entity/etprimitive"
)

// PlotRepository 地块仓储接口
type PlotRepository interface {
	// Create 创建地块，成功后回填 ID
	Create(ctx context.Context, plot *etplot.Plot) error

	// GetByID 根据ID查询地块，不存在时返回 nil, nil
	GetByID(ctx context.Context, plotID int64) (*etplot.Plot, error)

	// List 分页查询地块列表
	List(ctx context.Context, page etprimitive.Pagination) ([]*etplot.Plot, int64, error)
}
