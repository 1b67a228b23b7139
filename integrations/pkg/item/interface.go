package item

import (
	"context"
	"errors"

	util "connector/tools/middleware"
)

const (
	AppName = "item"
)

// ErrNotFound 条目不存在
var ErrNotFound = errors.New("integration item not found")

type Service interface {
	SaveItems(ctx context.Context, integration string, items []*IntegrationItem) error
	QueryItems(ctx context.Context, req *QueryItemRequest) (*ItemSet, error)
	DescribeItem(ctx context.Context, req *DescribeItemRequest) (*IntegrationItem, error)
}

func NewQueryItemRequest() *QueryItemRequest {
	return &QueryItemRequest{
		PageRequest: util.NewPageRequest(),
	}
}

func NewDescribeItemRequest(integration, id string) *DescribeItemRequest {
	return &DescribeItemRequest{
		Integration: integration,
		ID:          id,
	}
}

type QueryItemRequest struct {
	Integration string `json:"integration"`
	Type        string `json:"type"`

	*util.PageRequest
}

type DescribeItemRequest struct {
	Integration string `json:"integration"`
	ID          string `json:"id"`
}
