package framework

import (
	"context"
	"fmt"
)

// PreProcessor 顺序执行校验步骤，遇到第一个错误即停止
type PreProcessor struct {
	steps []ProcessorFunc
}

// NewPreProcessor 创建校验链
func NewPreProcessor(steps []ProcessorFunc) *PreProcessor {
	return &PreProcessor{steps: steps}
}

// Run 返回的错误带有失败步骤的下标
func (p *PreProcessor) Run(ctx context.Context) error {
	for i, step := range p.steps {
		if err := step(ctx); err != nil {
			return fmt.Errorf("processor[%d] failed: %w", i, err)
		}
	}
	return nil
}
