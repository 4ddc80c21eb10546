package svanalysis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"cropwatch/common/model"
	"cropwatch/internal/app/domains/entity/etreading"
	"cropwatch/internal/app/domains/modules/mdanalysis"
	"cropwatch/internal/app/domains/modules/mdplot"
	"cropwatch/internal/app/infra/persistence/redis"
	"cropwatch/internal/app/pkg/errorx"
	"cropwatch/internal/app/pkg/logger"
)

// 分析结果状态
const (
	StatusCompleted  = "completed"
	StatusProcessing = "processing"
	StatusFailed     = "failed"
)

// PlotOutcome 单地块分析结果
// Status 为 processing 时 Alerts 为空，结果稍后通过告警接口或 websocket 获取
type PlotOutcome struct {
	RequestID string
	PlotID    int64
	Status    string
	Readings  model.ReadingBatch
	Alerts    []model.AnomalyAlert
	Summary   model.AlertsSummary
	Error     string
}

// FleetSubmission 全量分析任务
type FleetSubmission struct {
	RequestID string
	PlotIDs   []int64
}

// AnalysisService 分析服务
// 职责：组装读数 → 发布分析任务 → Smart Wait
type AnalysisService struct {
	plotModule     *mdplot.PlotModule
	analysisModule *mdanalysis.AnalysisModule
	maxWait        time.Duration
	logger         logger.Logger
	now            func() time.Time
}

// NewAnalysisService 创建分析服务实例，maxWait 为等待时长上限
func NewAnalysisService(
	plotModule *mdplot.PlotModule,
	analysisModule *mdanalysis.AnalysisModule,
	maxWait time.Duration,
	log logger.Logger,
) *AnalysisService {
	return &AnalysisService{
		plotModule:     plotModule,
		analysisModule: analysisModule,
		maxWait:        maxWait,
		logger:         log,
		now:            time.Now,
	}
}

// AnalyzePlot 分析地块最新读数
// 1. 校验地块存在且有读数
// 2. wait > 0 时先订阅结果频道
// 3. 发布 plot_analyze 任务
// 4. 等待结果，超时返回 processing
func (s *AnalysisService) AnalyzePlot(ctx context.Context, plotID int64, wait time.Duration) (*PlotOutcome, error) {
	plot, err := s.plotModule.GetPlot(ctx, plotID)
	if err != nil {
		return nil, fmt.Errorf("get plot failed: %w", err)
	}
	if plot == nil {
		return nil, errorx.ErrPlotNotFound
	}

	latest, err := s.plotModule.LatestReadings(ctx, plotID)
	if err != nil {
		return nil, fmt.Errorf("query latest readings failed: %w", err)
	}
	if len(latest) == 0 {
		return nil, errorx.ErrNoReadings
	}

	outcome := &PlotOutcome{
		RequestID: uuid.New().String(),
		PlotID:    plotID,
		Status:    StatusProcessing,
		Readings:  etreading.ToBatch(latest),
	}

	wait = s.capWait(wait)
	var sub redis.Subscription
	if wait > 0 {
		sub, err = s.analysisModule.ListenResult(ctx, outcome.RequestID)
		if err != nil {
			s.logger.WarnContext(ctx, "Subscribe analysis result failed, skip waiting",
				"request_id", outcome.RequestID,
				"error", err,
			)
			sub = nil
		} else {
			defer sub.Close()
		}
	}

	if _, err := s.analysisModule.PublishPlotJob(ctx, outcome.RequestID, plot.IDString(), outcome.Readings, s.now()); err != nil {
		return nil, err
	}

	if sub == nil {
		return outcome, nil
	}

	notification, err := s.analysisModule.WaitResult(ctx, sub, wait)
	if err != nil {
		if !errors.Is(err, redis.ErrWaitTimeout) {
			s.logger.WarnContext(ctx, "Wait for analysis result failed",
				"request_id", outcome.RequestID,
				"error", err,
			)
		}
		return outcome, nil
	}

	applyNotification(outcome, notification)
	return outcome, nil
}

// AnalyzeFleet 为全部有读数的地块发布一个 fleet_analyze 任务
func (s *AnalysisService) AnalyzeFleet(ctx context.Context) (*FleetSubmission, error) {
	ids, err := s.plotModule.PlotsWithReadings(ctx)
	if err != nil {
		return nil, fmt.Errorf("query plots with readings failed: %w", err)
	}

	submission := &FleetSubmission{
		RequestID: uuid.New().String(),
		PlotIDs:   make([]int64, 0, len(ids)),
	}
	plots := make([]model.PlotReadings, 0, len(ids))
	for _, id := range ids {
		latest, err := s.plotModule.LatestReadings(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("query latest readings for plot %d failed: %w", id, err)
		}
		if len(latest) == 0 {
			continue
		}
		plots = append(plots, model.PlotReadings{
			PlotID:   strconv.FormatInt(id, 10),
			Readings: etreading.ToBatch(latest),
		})
		submission.PlotIDs = append(submission.PlotIDs, id)
	}
	if len(plots) == 0 {
		return nil, errorx.ErrNoReadings
	}

	if _, err := s.analysisModule.PublishFleetJob(ctx, submission.RequestID, plots, s.now()); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Fleet analysis submitted",
		"request_id", submission.RequestID,
		"plots", len(plots),
	)
	return submission, nil
}

// capWait 限制等待时长
func (s *AnalysisService) capWait(wait time.Duration) time.Duration {
	if wait <= 0 {
		return 0
	}
	if s.maxWait > 0 && wait > s.maxWait {
		return s.maxWait
	}
	return wait
}

func applyNotification(outcome *PlotOutcome, n *model.AnalysisNotification) {
	if n.Status != model.CallbackStatusSuccess {
		outcome.Status = StatusFailed
		outcome.Error = n.Error
		return
	}
	outcome.Status = StatusCompleted
	outcome.Alerts = n.Alerts
	if outcome.Alerts == nil {
		outcome.Alerts = []model.AnomalyAlert{}
	}
	outcome.Summary = n.Summary
}
