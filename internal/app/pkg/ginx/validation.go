package ginx

import (
	"fmt"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"cropwatch/common/model"
)

var registerOnce sync.Once

// RegisterValidators 向 gin 的校验引擎注册领域校验规则
//   - sensor_type: 五类已知传感器之一（含 temp、hum 等简写）
//   - severity: low/medium/high/critical
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
			return
		}
		err = registerOn(v)
	})
	return err
}

func registerOn(v *validator.Validate) error {
	if err := v.RegisterValidation("sensor_type", func(fl validator.FieldLevel) bool {
		_, ok := model.ParseSensorAlias(fl.Field().String())
		return ok
	}); err != nil {
		return err
	}
	return v.RegisterValidation("severity", func(fl validator.FieldLevel) bool {
		_, ok := model.ParseSeverity(fl.Field().String())
		return ok
	})
}
