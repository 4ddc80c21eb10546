package rpalert

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"cropwatch/common/entity"
	"cropwatch/common/model"
	"cropwatch/internal/app/domains/entity/etalert"
)

// AlertRepositoryImpl 告警仓储实现（MySQL）
type AlertRepositoryImpl struct {
	db *gorm.DB
}

// NewAlertRepository 创建告警仓储实例
func NewAlertRepository(db *gorm.DB) AlertRepository {
	return &AlertRepositoryImpl{db: db}
}

// CreateAlerts 逐条插入，冲突时 DoNothing，保证回调重复投递幂等
func (r *AlertRepositoryImpl) CreateAlerts(ctx context.Context, alerts []*etalert.Alert) ([]*etalert.Alert, error) {
	created := make([]*etalert.Alert, 0, len(alerts))
	if len(alerts) == 0 {
		return created, nil
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, alert := range alerts {
			po, err := r.toGormModel(alert)
			if err != nil {
				return err
			}
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(po)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected != 1 {
				continue
			}

			history := &entity.AlertHistory{
				AlertID:   alert.ID,
				Action:    string(etalert.ActionCreated),
				Timestamp: time.Now().UTC(),
			}
			if err := tx.Create(history).Error; err != nil {
				return err
			}
			created = append(created, alert)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetByID 根据ID查询告警
func (r *AlertRepositoryImpl) GetByID(ctx context.Context, alertID int64) (*etalert.Alert, error) {
	var po entity.Alert
	err := r.db.WithContext(ctx).Where("id = ?", alertID).First(&po).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.toDomainModel(&po)
}

// List 分页查询告警
func (r *AlertRepositoryImpl) List(ctx context.Context, filter etalert.Filter) ([]*etalert.Alert, int64, error) {
	page := filter.Pagination.Normalize()

	var total int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&entity.Alert{}), filter)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var pos []entity.Alert
	if err := query.Offset(page.Offset()).Limit(page.Limit).Order("timestamp DESC, id DESC").Find(&pos).Error; err != nil {
		return nil, 0, err
	}

	alerts, err := r.toDomainModels(pos)
	if err != nil {
		return nil, 0, err
	}
	return alerts, total, nil
}

// ListAll 查询全部匹配告警
func (r *AlertRepositoryImpl) ListAll(ctx context.Context, filter etalert.Filter) ([]*etalert.Alert, error) {
	var pos []entity.Alert
	query := r.applyFilter(r.db.WithContext(ctx).Model(&entity.Alert{}), filter)
	if err := query.Order("timestamp DESC, id DESC").Find(&pos).Error; err != nil {
		return nil, err
	}
	return r.toDomainModels(pos)
}

// Resolve 条件更新 is_resolved，并发解决时只有一个成功
func (r *AlertRepositoryImpl) Resolve(ctx context.Context, alert *etalert.Alert, notes string) error {
	if alert.ResolvedAt == nil {
		return errors.New("resolved_at is required")
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entity.Alert{}).
			Where("id = ? AND is_resolved = ?", alert.ID, false).
			Updates(map[string]interface{}{
				"is_resolved": true,
				"resolved_at": *alert.ResolvedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return etalert.ErrAlreadyResolved
		}

		return tx.Create(&entity.AlertHistory{
			AlertID:   alert.ID,
			Action:    string(etalert.ActionResolved),
			Notes:     notes,
			Timestamp: *alert.ResolvedAt,
		}).Error
	})
}

// AddHistory 追加操作记录
func (r *AlertRepositoryImpl) AddHistory(ctx context.Context, history *etalert.History) error {
	po := &entity.AlertHistory{
		AlertID:   history.AlertID,
		Action:    string(history.Action),
		Notes:     history.Notes,
		Timestamp: history.Timestamp,
	}
	if err := r.db.WithContext(ctx).Create(po).Error; err != nil {
		return err
	}
	history.ID = po.ID
	return nil
}

// ListHistory 告警操作记录（按写入顺序）
func (r *AlertRepositoryImpl) ListHistory(ctx context.Context, alertID int64) ([]*etalert.History, error) {
	var pos []entity.AlertHistory
	err := r.db.WithContext(ctx).
		Where("alert_id = ?", alertID).
		Order("id ASC").
		Find(&pos).Error
	if err != nil {
		return nil, err
	}

	out := make([]*etalert.History, 0, len(pos))
	for _, po := range pos {
		out = append(out, &etalert.History{
			ID:        po.ID,
			AlertID:   po.AlertID,
			Action:    etalert.HistoryAction(po.Action),
			Notes:     po.Notes,
			Timestamp: po.Timestamp,
		})
	}
	return out, nil
}

// applyFilter 拼接查询条件
func (r *AlertRepositoryImpl) applyFilter(query *gorm.DB, filter etalert.Filter) *gorm.DB {
	if filter.PlotID > 0 {
		query = query.Where("plot_id = ?", filter.PlotID)
	}
	if filter.Severity != 0 {
		query = query.Where("severity = ?", filter.Severity.String())
	}
	if filter.UnresolvedOnly {
		query = query.Where("is_resolved = ?", false)
	}
	if !filter.Since.IsZero() {
		query = query.Where("timestamp >= ?", filter.Since.UTC())
	}
	return query
}

// toGormModel 领域对象转换为 GORM 模型
func (r *AlertRepositoryImpl) toGormModel(alert *etalert.Alert) (*entity.Alert, error) {
	recs, err := json.Marshal(alert.Recommendations)
	if err != nil {
		return nil, err
	}
	return &entity.Alert{
		ID:              alert.ID,
		PlotID:          alert.PlotID,
		RequestID:       alert.RequestID,
		AlertType:       alert.Category.String(),
		Severity:        alert.Severity.String(),
		Message:         alert.Message,
		CurrentValue:    alert.CurrentValue,
		ThresholdValue:  alert.ThresholdValue,
		Recommendations: datatypes.JSON(recs),
		IsResolved:      alert.IsResolved,
		ResolvedAt:      alert.ResolvedAt,
		Timestamp:       alert.Timestamp,
	}, nil
}

// toDomainModel GORM 模型转换为领域对象
func (r *AlertRepositoryImpl) toDomainModel(po *entity.Alert) (*etalert.Alert, error) {
	var recs []string
	if len(po.Recommendations) > 0 {
		if err := json.Unmarshal(po.Recommendations, &recs); err != nil {
			return nil, err
		}
	}
	category, _ := model.ParseSensorCategory(po.AlertType)
	severity, _ := model.ParseSeverity(po.Severity)

	return &etalert.Alert{
		ID:              po.ID,
		PlotID:          po.PlotID,
		RequestID:       po.RequestID,
		Category:        category,
		Severity:        severity,
		Message:         po.Message,
		CurrentValue:    po.CurrentValue,
		ThresholdValue:  po.ThresholdValue,
		Recommendations: recs,
		IsResolved:      po.IsResolved,
		ResolvedAt:      po.ResolvedAt,
		Timestamp:       po.Timestamp,
	}, nil
}

func (r *AlertRepositoryImpl) toDomainModels(pos []entity.Alert) ([]*etalert.Alert, error) {
	alerts := make([]*etalert.Alert, 0, len(pos))
	for i := range pos {
		alert, err := r.toDomainModel(&pos[i])
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, alert)
	}
	return alerts, nil
}
