package api

import (
	"errors"
	"net/http"

	"connector/integrations/config"
	"connector/integrations/pkg/item"
	"connector/tools/ioc"
	"connector/tools/middleware"

	"github.com/gin-gonic/gin"
)

func init() {
	ioc.Api.RegisterContainer(item.AppName, &ItemHandler{})
}

type ItemHandler struct {
	ItemApi item.Service
}

func (h *ItemHandler) Init() error {
	h.ItemApi = ioc.ConController.GetMapContainer(item.AppName).(item.Service)

	c, err := config.LoadConfig()
	if err != nil {
		return err
	}
	subr := c.Application.GinRootRouter().Group("items")
	h.Register(subr)

	return nil
}

func (h *ItemHandler) Register(appRouter gin.IRouter) {
	appRouter.GET("", h.QueryItems)
	appRouter.GET("/describe", h.DescribeItem)
}

type apiResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

func writeSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, apiResponse{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func toApiError(err error) error {
	switch {
	case errors.Is(err, config.ErrPersistenceDisabled):
		return middleware.ErrServiceUnavailable("%s", err.Error())
	case errors.Is(err, item.ErrNotFound):
		return middleware.ErrNotFound("item not found")
	}
	return err
}

func (h *ItemHandler) QueryItems(c *gin.Context) {
	req := item.NewQueryItemRequest()
	req.PageRequest = middleware.NewPageRequestFromContext(c)
	req.Integration = c.Query("integration")
	req.Type = c.Query("type")

	set, err := h.ItemApi.QueryItems(c.Request.Context(), req)
	if err != nil {
		middleware.Failed(toApiError(err), c)
		return
	}

	writeSuccess(c, set)
}

func (h *ItemHandler) DescribeItem(c *gin.Context) {
	integration := c.Query("integration")
	id := c.Query("id")
	if integration == "" || id == "" {
		middleware.Failed(middleware.ErrValidateFailed("integration and id are required"), c)
		return
	}

	it, err := h.ItemApi.DescribeItem(c.Request.Context(), item.NewDescribeItemRequest(integration, id))
	if err != nil {
		middleware.Failed(toApiError(err), c)
		return
	}
	writeSuccess(c, it)
}
