package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader 请求链路 ID
	RequestIDHeader = "X-Request-ID"
	// RequestIDKey gin.Context 中保存请求 ID 的 key
	RequestIDKey = "request_id"
)

// RequestID 为每个请求生成或透传 X-Request-ID
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(RequestIDKey, id)
		c.Writer.Header().Set(RequestIDHeader, id)
		c.Next()
	}
}

// 成功, 对象 --> HTTP Response
func Success(data any, c *gin.Context) {
	c.JSON(http.StatusOK, data)
}

// 失败, 统一返回的数据结构: ApiException
func Failed(err error, c *gin.Context) {
	httpCode := http.StatusInternalServerError

	var apiErr *ApiException
	if errors.As(err, &apiErr) {
		if apiErr.HttpCode != 0 {
			httpCode = apiErr.HttpCode
		}
	} else {
		// 非业务异常，转化为内部报错异常
		apiErr = ErrServerInternal("%s", err.Error())
	}

	c.JSON(httpCode, apiErr)
	c.Abort()
}

// ApiException 用于描述业务异常
type ApiException struct {
	// 业务异常的编码
	Code int `json:"code"`
	// 异常描述信息
	Message string `json:"message"`
	// 不会出现在 Body 里面, 用于设置 http response 状态码
	HttpCode int `json:"-"`
}

func (e *ApiException) Error() string {
	return e.Message
}

func ErrServerInternal(format string, a ...any) *ApiException {
	return &ApiException{
		Code:     50000,
		Message:  fmt.Sprintf(format, a...),
		HttpCode: http.StatusInternalServerError,
	}
}

func ErrNotFound(format string, a ...any) *ApiException {
	return &ApiException{
		Code:     40400,
		Message:  fmt.Sprintf(format, a...),
		HttpCode: http.StatusNotFound,
	}
}

func ErrValidateFailed(format string, a ...any) *ApiException {
	return &ApiException{
		Code:     40000,
		Message:  fmt.Sprintf(format, a...),
		HttpCode: http.StatusBadRequest,
	}
}

func ErrServiceUnavailable(format string, a ...any) *ApiException {
	return &ApiException{
		Code:     50300,
		Message:  fmt.Sprintf(format, a...),
		HttpCode: http.StatusServiceUnavailable,
	}
}

func ErrBadGateway(format string, a ...any) *ApiException {
	return &ApiException{
		Code:     50200,
		Message:  fmt.Sprintf(format, a...),
		HttpCode: http.StatusBadGateway,
	}
}
