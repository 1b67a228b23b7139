package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// MaxPageSize 单页最大条数
const MaxPageSize = 100

type PageRequest struct {
	// 分页大小
	PageSize int `json:"pageSize" form:"pageSize" query:"pageSize"`
	// 分页页码
	PageNum int `json:"pageNum" form:"pageNum" query:"pageNum"`
}

// Offset 计算分页偏移量
func (p *PageRequest) Offset() int {
	return (p.PageNum - 1) * p.PageSize
}

// NewPageRequest 创建默认分页请求
func NewPageRequest() *PageRequest {
	return &PageRequest{
		PageSize: 10,
		PageNum:  1,
	}
}

// NewPageRequestFromContext 从上下文创建分页请求，非法值保留默认
func NewPageRequestFromContext(c *gin.Context) *PageRequest {
	p := NewPageRequest()

	if n, err := strconv.Atoi(c.Query("pageNum")); err == nil && n > 0 {
		p.PageNum = n
	}
	if n, err := strconv.Atoi(c.Query("pageSize")); err == nil && n > 0 {
		p.PageSize = n
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}

	return p
}
