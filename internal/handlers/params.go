package handlers

import (
	"net/http"
	"strconv"

	"github.com/3Eeeecho/go-tinybox/internal/pkg/xerr"
	"github.com/gin-gonic/gin"
)

// parseIDParam 解析路径中的 ID，失败时直接返回 400
func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		xerr.Error(c, http.StatusBadRequest, xerr.InvalidParamsCode, "无效的 "+name)
		return 0, false
	}
	return id, true
}
