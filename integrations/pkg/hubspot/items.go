package hubspot

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"connector/integrations/pkg/item"
	"connector/tools/httpclient"
)

const (
	companiesPath = "/crm/v3/objects/0-2"
	pageLimit     = 100
	maxPages      = 50
)

var companyProperties = []string{"name", "domain", "city", "industry", "phone", "state"}

type company struct {
	ID         string            `json:"id"`
	Properties map[string]string `json:"properties"`
	CreatedAt  string            `json:"createdAt"`
	UpdatedAt  string            `json:"updatedAt"`
	Archived   bool              `json:"archived"`
}

type companyPage struct {
	Results []company `json:"results"`
	Paging  *struct {
		Next *struct {
			After string `json:"after"`
		} `json:"next"`
	} `json:"paging"`
}

func (p *companyPage) nextAfter() string {
	if p.Paging == nil || p.Paging.Next == nil {
		return ""
	}
	return p.Paging.Next.After
}

// Items 拉取全部公司并转换为 IntegrationItem；access token 过期时先刷新，
// 返回的凭证可能是刷新后的新凭证
func (c *Client) Items(ctx context.Context, creds *Credentials) (items []*item.IntegrationItem, current *Credentials, err error) {
	defer func() { record("items", err) }()

	if creds == nil || creds.AccessToken == "" {
		return nil, nil, ErrNoCredentials
	}
	current, err = c.refresh(ctx, creds)
	if err != nil {
		return nil, nil, err
	}

	items = []*item.IntegrationItem{}
	after := ""
	seen := map[string]bool{}
	for page := 0; page < maxPages; page++ {
		p, err := c.listCompanies(ctx, current.AccessToken, after)
		if err != nil {
			return nil, nil, err
		}
		for _, co := range p.Results {
			items = append(items, companyToItem(co))
		}

		after = p.nextAfter()
		if after == "" || seen[after] {
			break
		}
		seen[after] = true
	}

	c.logger.Info("Loaded %d HubSpot companies", len(items))
	return items, current, nil
}

func (c *Client) listCompanies(ctx context.Context, accessToken, after string) (*companyPage, error) {
	q := url.Values{}
	q.Set("properties", strings.Join(companyProperties, ","))
	q.Set("limit", fmt.Sprint(pageLimit))
	if after != "" {
		q.Set("after", after)
	}
	u := c.apiDomain + companiesPath + "?" + q.Encode()

	body, status, err := httpclient.RequestC(ctx, c.httpClient, http.MethodGet, u, nil, map[string]string{
		"Authorization": "Bearer " + accessToken,
		"Accept":        "application/json",
	})
	if err != nil {
		return nil, fmt.Errorf("%w: list companies: %v", ErrUpstream, err)
	}
	if !httpclient.IsSuccess(status) {
		return nil, &APIError{Operation: "list companies", Status: status, Body: string(body)}
	}

	var p companyPage
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("%w: decode companies: %v", ErrUpstream, err)
	}
	return &p, nil
}

func companyToItem(co company) *item.IntegrationItem {
	id := co.Properties["hs_object_id"]
	if id == "" {
		id = co.ID
	}
	it := item.NewIntegrationItem(AppName, id, ItemType)
	it.ParentID = co.ID
	it.Name = co.Properties["name"]
	it.URL = co.Properties["domain"]
	it.CreationTime = parseTime(co.CreatedAt)
	it.LastModifiedTime = parseTime(co.UpdatedAt)
	return it
}

func parseTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return nil
	}
	return &t
}
