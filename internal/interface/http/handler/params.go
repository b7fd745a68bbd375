package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/lodging/pkg/response"
)

// pathID 解析路径中的数字ID，失败时已写出错误响应
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.ErrorWithCode(c, 40900, "参数错误: 无效的"+name)
		return 0, false
	}
	return uint(id), true
}

// queryInt 解析可选的整数查询参数，缺省或非法时返回def
func queryInt(c *gin.Context, name string, def int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return def
	}
	return v
}
