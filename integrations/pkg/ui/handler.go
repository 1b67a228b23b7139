package ui

import (
	"bytes"
	"net/http"

	"connector/integrations/config"
	"connector/tools/ioc"
	"connector/tools/middleware"

	"github.com/gin-gonic/gin"
)

func init() {
	ioc.Api.RegisterContainer(AppName, &UIHandler{})
}

type UIHandler struct{}

func (h *UIHandler) Init() error {
	c, err := config.LoadConfig()
	if err != nil {
		return err
	}

	h.Register(c.Application.GinServer())
	return nil
}

func (h *UIHandler) Register(r gin.IRouter) {
	r.GET("/app", h.Root)
}

// Root 返回根页面。模板由 RenderRoot 直接渲染，不挂到 engine 上
func (h *UIHandler) Root(c *gin.Context) {
	var buf bytes.Buffer
	if err := RenderRoot(&buf); err != nil {
		middleware.Failed(err, c)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}
