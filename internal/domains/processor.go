package domains

import (
	"context"
	"encoding/json"
	"time"

	"github.com/bitleak/lmstfy/client"
	"github.com/google/uuid"

	"cropwatch/internal/business"
	"cropwatch/internal/domains/common"
	"cropwatch/internal/domains/common/response"
	"cropwatch/internal/framework"
	"cropwatch/internal/metrics"
	"cropwatch/pkg/lmstfyx"
	"cropwatch/pkg/logger"
)

// GetProcess 返回核心处理函数（注入到 Processor）
func GetProcess(log logger.Logger, svc *business.AnalysisService) lmstfyx.Proc {
	return func(ctx context.Context, lmstfyJob *client.Job) *lmstfyx.JobResp {
		startTime := time.Now()

		// 1. 解析 Job
		base := &framework.BaseHandler{}
		if err := base.ParseJob(ctx, lmstfyJob.Data); err != nil {
			log.Errorf(ctx, "[GetProcess] parseJob failed: %v", err)
			metrics.JobsProcessed.WithLabelValues("unknown", lmstfyx.JobRespStatusBury.String()).Inc()
			return &lmstfyx.JobResp{Action: lmstfyx.JobRespStatusBury}
		}

		meta := base.GetMeta()
		if meta.RequestID == "" {
			meta.RequestID = uuid.New().String()
			base.SetMeta(meta)
		}

		// 2. 注入 TraceID 到 Context
		ctx = logger.WithTraceID(ctx, meta.RequestID)
		ctx = logger.WithActionType(ctx, meta.ActionType)

		log.Infof(ctx, "[GetProcess] Processing job: action_type=%s, request_id=%s, id=%s",
			meta.ActionType, meta.RequestID, meta.ID)

		// 3. 从 HandlerMap 获取 Handler
		handlerFunc, ok := HandlerMap[meta.ActionType]
		if !ok {
			log.Errorf(ctx, "[GetProcess] handler not found for action_type: %s", meta.ActionType)
			metrics.JobsProcessed.WithLabelValues("unknown", lmstfyx.JobRespStatusBury.String()).Inc()
			return &lmstfyx.JobResp{Action: lmstfyx.JobRespStatusBury}
		}

		// 4. 调用 Handler（捕获 panic）
		resp := runHandler(ctx, handlerFunc, base, svc, log)

		// 5. 记录处理时长
		duration := time.Since(startTime)
		metrics.JobsProcessed.WithLabelValues(meta.ActionType, resp.Action.String()).Inc()
		metrics.JobDuration.WithLabelValues(meta.ActionType).Observe(duration.Seconds())
		log.Infof(ctx, "[GetProcess] Processing complete: action=%s, duration=%v", resp.Action, duration)

		return resp
	}
}

// runHandler 创建并执行 Handler，panic 转为 Bury
func runHandler(
	ctx context.Context,
	handlerFunc common.HandlerServProc,
	base *framework.BaseHandler,
	svc *business.AnalysisService,
	log logger.Logger,
) (resp *lmstfyx.JobResp) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf(ctx, "[GetProcess] handler panic: %v", r)
			resp = &lmstfyx.JobResp{Action: lmstfyx.JobRespStatusBury}
		}
	}()

	handler, err := handlerFunc(ctx, base, svc)
	if err != nil {
		log.Errorf(ctx, "[GetProcess] handler creation failed: %v", err)
		return &lmstfyx.JobResp{Action: lmstfyx.JobRespStatusBury}
	}

	return doJobReport(ctx, handler.GetProcess(), log)
}

// doJobReport 生成 JobResp（根据 Response 判断 ACK/Bury/Release）
func doJobReport(ctx context.Context, resp *response.Response, log logger.Logger) *lmstfyx.JobResp {
	if resp == nil {
		return &lmstfyx.JobResp{Action: lmstfyx.JobRespStatusBury}
	}

	data, err := json.Marshal(resp)
	if err != nil {
		log.Errorf(ctx, "[doJobReport] marshal response failed: %v", err)
		return &lmstfyx.JobResp{Action: lmstfyx.JobRespStatusBury}
	}

	switch {
	case resp.Processed:
		return &lmstfyx.JobResp{Action: lmstfyx.JobRespStatusSuccess, Data: data}
	case resp.Retryable():
		log.Warnf(ctx, "[doJobReport] retryable failure: %v", resp.Error)
		return &lmstfyx.JobResp{Action: lmstfyx.JobRespStatusRelease, Data: data}
	default:
		log.Errorf(ctx, "[doJobReport] job failed: %v", resp.Error)
		return &lmstfyx.JobResp{Action: lmstfyx.JobRespStatusBury, Data: data}
	}
}
