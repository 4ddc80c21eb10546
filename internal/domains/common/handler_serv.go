package common

import (
	"context"

	"cropwatch/internal/business"
	"cropwatch/internal/domains/common/response"
	"cropwatch/internal/framework"
)

// HandlerServProc Handler 构造函数类型
// base 已完成 ParseJob，svc 为共享的分析服务
type HandlerServProc func(ctx context.Context, base *framework.BaseHandler, svc *business.AnalysisService) (HandlerServ, error)

// HandlerServ Handler 接口
type HandlerServ interface {
	GetProcess() *response.Response
}
