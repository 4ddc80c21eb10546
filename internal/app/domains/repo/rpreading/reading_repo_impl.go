package rpreading

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"cropwatch/common/entity"
	"cropwatch/common/model"
	"cropwatch/internal/app/domains/entity/etreading"
)

// ReadingRepositoryImpl 读数仓储实现（MySQL）
type ReadingRepositoryImpl struct {
	db *gorm.DB
}

// NewReadingRepository 创建读数仓储实例
func NewReadingRepository(db *gorm.DB) ReadingRepository {
	return &ReadingRepositoryImpl{db: db}
}

// CreateBatch 批量写入读数，成功后回填 ID
func (r *ReadingRepositoryImpl) CreateBatch(ctx context.Context, readings []*etreading.Reading) error {
	if len(readings) == 0 {
		return nil
	}
	pos := make([]*entity.SensorReading, 0, len(readings))
	for _, reading := range readings {
		pos = append(pos, r.toGormModel(reading))
	}
	if err := r.db.WithContext(ctx).Create(&pos).Error; err != nil {
		return err
	}
	for i, po := range pos {
		readings[i].ID = po.ID
	}
	return nil
}

// LatestByPlot 按类别逐个取最新读数，走 idx_plot_sensor_time 索引
func (r *ReadingRepositoryImpl) LatestByPlot(ctx context.Context, plotID int64) ([]*etreading.Reading, error) {
	out := make([]*etreading.Reading, 0, len(model.Categories))
	for _, c := range model.Categories {
		var po entity.SensorReading
		err := r.db.WithContext(ctx).
			Where("plot_id = ? AND sensor_type = ?", plotID, c.String()).
			Order("timestamp DESC, id DESC").
			Limit(1).
			Take(&po).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		reading, ok := r.toDomainModel(&po)
		if ok {
			out = append(out, reading)
		}
	}
	return out, nil
}

// List 读数历史，按 filter.Ordering 排序，同值按 id 倒序
func (r *ReadingRepositoryImpl) List(ctx context.Context, filter etreading.Filter) ([]*etreading.Reading, int64, error) {
	page := filter.Pagination.Normalize()

	query := r.db.WithContext(ctx).Model(&entity.SensorReading{}).Where("plot_id = ?", filter.PlotID)
	if filter.Category.Known() {
		query = query.Where("sensor_type = ?", filter.Category.String())
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var pos []entity.SensorReading
	err := query.Order(orderClause(filter.Ordering)).
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&pos).Error
	if err != nil {
		return nil, 0, err
	}

	out := make([]*etreading.Reading, 0, len(pos))
	for i := range pos {
		if reading, ok := r.toDomainModel(&pos[i]); ok {
			out = append(out, reading)
		}
	}
	return out, total, nil
}

func orderClause(ordering string) string {
	switch ordering {
	case etreading.OrderTimestampAsc:
		return "timestamp ASC, id ASC"
	case etreading.OrderValueAsc:
		return "value ASC, id DESC"
	case etreading.OrderValueDesc:
		return "value DESC, id DESC"
	default:
		return "timestamp DESC, id DESC"
	}
}

// PlotsWithReadings 有读数的地块 ID
func (r *ReadingRepositoryImpl) PlotsWithReadings(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&entity.SensorReading{}).
		Distinct("plot_id").
		Order("plot_id ASC").
		Pluck("plot_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// toGormModel 领域对象转换为 GORM 模型
func (r *ReadingRepositoryImpl) toGormModel(reading *etreading.Reading) *entity.SensorReading {
	return &entity.SensorReading{
		ID:         reading.ID,
		PlotID:     reading.PlotID,
		SensorType: reading.Category.String(),
		Value:      reading.Value,
		Unit:       reading.Unit,
		Source:     reading.Source,
		Timestamp:  reading.Timestamp,
	}
}

// toDomainModel GORM 模型转换为领域对象，未知类别返回 false
func (r *ReadingRepositoryImpl) toDomainModel(po *entity.SensorReading) (*etreading.Reading, bool) {
	category, ok := model.ParseSensorCategory(po.SensorType)
	if !ok {
		return nil, false
	}
	return &etreading.Reading{
		ID:        po.ID,
		PlotID:    po.PlotID,
		Category:  category,
		Value:     po.Value,
		Unit:      po.Unit,
		Source:    po.Source,
		Timestamp: po.Timestamp,
	}, true
}
