package rpplot

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"cropwatch/common/entity"
	"cropwatch/internal/app/domains/entity/etplot"
	"cropwatch/internal/app/domains/entity/etprimitive"
)

// PlotRepositoryImpl 地块仓储实现（MySQL）
type PlotRepositoryImpl struct {
	db *gorm.DB
}

// NewPlotRepository 创建地块仓储实例
func NewPlotRepository(db *gorm.DB) PlotRepository {
	return &PlotRepositoryImpl{db: db}
}

// Create 创建地块
func (r *PlotRepositoryImpl) Create(ctx context.Context, plot *etplot.Plot) error {
	po := r.toGormModel(plot)
	if err := r.db.WithContext(ctx).Create(po).Error; err != nil {
		return err
	}
	plot.ID = po.ID
	return nil
}

// GetByID 根据ID查询地块
func (r *PlotRepositoryImpl) GetByID(ctx context.Context, plotID int64) (*etplot.Plot, error) {
	var po entity.Plot
	err := r.db.WithContext(ctx).Where("id = ?", plotID).First(&po).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.toDomainModel(&po), nil
}

// List 分页查询地块列表（按创建时间倒序）
func (r *PlotRepositoryImpl) List(ctx context.Context, page etprimitive.Pagination) ([]*etplot.Plot, int64, error) {
	page = page.Normalize()

	var total int64
	var pos []entity.Plot

	query := r.db.WithContext(ctx).Model(&entity.Plot{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := query.Offset(page.Offset()).Limit(page.Limit).Order("created_at DESC, id DESC").Find(&pos).Error; err != nil {
		return nil, 0, err
	}

	plots := make([]*etplot.Plot, 0, len(pos))
	for i := range pos {
		plots = append(plots, r.toDomainModel(&pos[i]))
	}
	return plots, total, nil
}

// toGormModel 领域对象转换为 GORM 模型
func (r *PlotRepositoryImpl) toGormModel(plot *etplot.Plot) *entity.Plot {
	return &entity.Plot{
		ID:          plot.ID,
		Name:        plot.Name,
		Description: plot.Description,
		Location:    plot.Location,
		CropType:    plot.CropType,
		Size:        plot.Size,
		Status:      string(plot.Status),
		CreatedAt:   plot.CreatedAt,
		UpdatedAt:   plot.UpdatedAt,
	}
}

// toDomainModel GORM 模型转换为领域对象
func (r *PlotRepositoryImpl) toDomainModel(po *entity.Plot) *etplot.Plot {
	return &etplot.Plot{
		ID:          po.ID,
		Name:        po.Name,
		Description: po.Description,
		Location:    po.Location,
		CropType:    po.CropType,
		Size:        po.Size,
		Status:      etplot.PlotStatus(po.Status),
		CreatedAt:   po.CreatedAt,
		UpdatedAt:   po.UpdatedAt,
	}
}
