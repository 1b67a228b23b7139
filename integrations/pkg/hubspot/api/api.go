package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"connector/integrations/config"
	"connector/integrations/pkg/hubspot"
	"connector/integrations/pkg/item"
	"connector/tools/httpclient"
	"connector/tools/ioc"
	"connector/tools/logger"
	"connector/tools/middleware"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
)

func init() {
	ioc.Api.RegisterContainer(hubspot.AppName, &HubSpotHandler{})
}

// closeWindowPage 授权完成后关闭弹出窗口
const closeWindowPage = `<html>
    <script>
        window.close();
    </script>
</html>`

type HubSpotHandler struct {
	client *hubspot.Client
	items  item.Service
	logger *logger.Logger
}

func NewHubSpotHandler(client *hubspot.Client, items item.Service, log *logger.Logger) *HubSpotHandler {
	return &HubSpotHandler{client: client, items: items, logger: log}
}

func (h *HubSpotHandler) Init() error {
	c, err := config.LoadConfig()
	if err != nil {
		return err
	}

	store, err := c.GetKV(context.Background())
	if err != nil {
		return err
	}

	h.logger = logger.NewLogger(c.LogLevel)
	h.client = hubspot.NewClient(c.HubSpot, store, httpclient.NewClient(c.HTTPClientOptions()), h.logger)
	h.items, _ = ioc.ConController.GetMapContainer(item.AppName).(item.Service)
	if !c.HubSpot.Configured() {
		h.logger.Warn("HubSpot client is not configured, OAuth endpoints will answer 503")
	}

	h.Register(c.Application.GinServer().Group("/integrations/hubspot"))
	return nil
}

func (h *HubSpotHandler) Register(r gin.IRouter) {
	r.POST("/authorize", h.Authorize)
	r.GET("/oauth2callback", h.OAuth2Callback)
	r.POST("/credentials", h.Credentials)
	r.POST("/load", h.Load)
}

func toApiError(err error) error {
	var retrieveErr *oauth2.RetrieveError
	switch {
	case errors.Is(err, hubspot.ErrNotConfigured):
		return middleware.ErrServiceUnavailable("%s", err.Error())
	case errors.Is(err, hubspot.ErrMissingIdentity),
		errors.Is(err, hubspot.ErrMissingCode),
		errors.Is(err, hubspot.ErrInvalidState),
		errors.Is(err, hubspot.ErrStateMismatch),
		errors.Is(err, hubspot.ErrNoCredentials),
		errors.Is(err, hubspot.ErrAuthorizationDenied):
		return middleware.ErrValidateFailed("%s", err.Error())
	case errors.Is(err, hubspot.ErrUpstream), errors.As(err, &retrieveErr):
		return middleware.ErrBadGateway("%s", err.Error())
	}
	return err
}

// Authorize 返回授权链接，浏览器表单提交时直接重定向
func (h *HubSpotHandler) Authorize(c *gin.Context) {
	authURL, err := h.client.Authorize(c.Request.Context(), c.PostForm("user_id"), c.PostForm("org_id"))
	if err != nil {
		middleware.Failed(toApiError(err), c)
		return
	}

	if c.NegotiateFormat(gin.MIMEJSON, gin.MIMEHTML) == gin.MIMEHTML {
		c.Redirect(http.StatusFound, authURL)
		return
	}
	c.JSON(http.StatusOK, authURL)
}

func (h *HubSpotHandler) OAuth2Callback(c *gin.Context) {
	err := h.client.OAuth2Callback(c.Request.Context(), hubspot.CallbackParams{
		Code:  c.Query("code"),
		State: c.Query("state"),
		Error: c.Query("error"),
	})
	if err != nil {
		h.logger.Error("HubSpot oauth2 callback failed: %v", err)
		middleware.Failed(toApiError(err), c)
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(closeWindowPage))
}

func (h *HubSpotHandler) Credentials(c *gin.Context) {
	creds, err := h.client.Credentials(c.Request.Context(), c.PostForm("user_id"), c.PostForm("org_id"))
	if err != nil {
		middleware.Failed(toApiError(err), c)
		return
	}
	c.JSON(http.StatusOK, creds)
}

// Load 拉取公司列表，启用持久化时同时保存
func (h *HubSpotHandler) Load(c *gin.Context) {
	var creds hubspot.Credentials
	if err := json.Unmarshal([]byte(c.PostForm("credentials")), &creds); err != nil {
		middleware.Failed(middleware.ErrValidateFailed("invalid credentials: %s", err), c)
		return
	}

	items, _, err := h.client.Items(c.Request.Context(), &creds)
	if err != nil {
		h.logger.Error("HubSpot load failed: %v", err)
		middleware.Failed(toApiError(err), c)
		return
	}

	if h.items != nil {
		err := h.items.SaveItems(c.Request.Context(), hubspot.AppName, items)
		switch {
		case errors.Is(err, config.ErrPersistenceDisabled):
		case err != nil:
			h.logger.Error("save HubSpot items failed: %v", err)
		}
	}

	c.JSON(http.StatusOK, items)
}
