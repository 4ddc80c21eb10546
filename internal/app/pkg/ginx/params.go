package ginx

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// PathID 解析正整数路径参数，失败时直接写回 400
func PathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		BadRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}
