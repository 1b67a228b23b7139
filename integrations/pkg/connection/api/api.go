package api

import (
	"net/http"

	"connector/integrations/config"
	"connector/integrations/pkg/connection"
	"connector/tools/ioc"
	"connector/tools/middleware"

	"github.com/gin-gonic/gin"
)

func init() {
	ioc.Api.RegisterContainer(connection.AppName, &ConnectionHandler{})
}

type ConnectionHandler struct {
	checker *connection.Checker
}

func NewConnectionHandler(checker *connection.Checker) *ConnectionHandler {
	return &ConnectionHandler{checker: checker}
}

func (h *ConnectionHandler) Init() error {
	h.checker = connection.FromContainer().Checker

	c, err := config.LoadConfig()
	if err != nil {
		return err
	}
	h.RegisterPublic(c.Application.GinServer())
	h.Register(c.Application.GinRootRouter())

	return nil
}

// RegisterPublic 挂在根路径上的接口，前端按固定地址访问
func (h *ConnectionHandler) RegisterPublic(r gin.IRouter) {
	r.GET("/", h.Ping)
	r.GET("/testconnection", h.TestConnection)
}

func (h *ConnectionHandler) Register(appRouter gin.IRouter) {
	appRouter.GET("/health", h.Health)
	appRouter.GET("/connection/check", h.Check)
}

func (h *ConnectionHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"Ping": "Pong"})
}

// TestConnection 连通性探测端点
func (h *ConnectionHandler) TestConnection(c *gin.Context) {
	c.JSON(http.StatusOK, connection.StatusResponse{Status: string(connection.StatusOK)})
}

func (h *ConnectionHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "hello ok！",
	})
}

// Check 立即执行一次连通性检查并返回结果，失败时返回 503
func (h *ConnectionHandler) Check(c *gin.Context) {
	if h.checker == nil {
		middleware.Failed(middleware.ErrServiceUnavailable("connection checker is not initialized"), c)
		return
	}

	result := h.checker.Check(c.Request.Context())
	if !result.OK() {
		c.JSON(http.StatusServiceUnavailable, result)
		return
	}
	middleware.Success(result, c)
}
