package hubspot

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/oauth2"
)

const (
	AppName = "hubspot"

	// ItemType HubSpot 公司对象
	ItemType = "company"

	stateTTL       = 600 * time.Second
	credentialsTTL = 1800 * time.Second
)

var (
	ErrNotConfigured   = errors.New("hubspot integration is not configured")
	ErrMissingIdentity = errors.New("user_id and org_id are required")
	ErrMissingCode     = errors.New("authorization code is missing")
	// ErrAuthorizationDenied 回调携带 error 参数
	ErrAuthorizationDenied = errors.New("hubspot authorization denied")
	ErrInvalidState        = errors.New("invalid state parameter")
	ErrStateMismatch       = errors.New("State does not match.")
	ErrNoCredentials       = errors.New("No credentials found.")
	// ErrUpstream HubSpot 接口返回失败
	ErrUpstream = errors.New("hubspot request failed")
)

func stateKey(orgID, userID string) string {
	return fmt.Sprintf("hubspot_state:%s:%s", orgID, userID)
}

func credentialsKey(orgID, userID string) string {
	return fmt.Sprintf("hubspot_credentials:%s:%s", orgID, userID)
}

// State OAuth state，随授权链接发出并在回调时校验
type State struct {
	State  string `json:"state"`
	UserID string `json:"user_id"`
	OrgID  string `json:"org_id"`
}

// CallbackParams OAuth 回调查询参数
type CallbackParams struct {
	Code  string
	State string
	Error string
}

// Credentials 交给前端保存的访问凭证，ExpiresAt 为过期时刻（unix 秒）
type Credentials struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type,omitempty"`
	ExpiresAt    int64  `json:"expires_at"`
}

func credentialsFromToken(tok *oauth2.Token) *Credentials {
	creds := &Credentials{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
	}
	if !tok.Expiry.IsZero() {
		creds.ExpiresAt = tok.Expiry.Unix()
	}
	return creds
}

// Token 转换为 oauth2.Token
func (c *Credentials) Token() *oauth2.Token {
	tok := &oauth2.Token{
		AccessToken:  c.AccessToken,
		RefreshToken: c.RefreshToken,
		TokenType:    c.TokenType,
	}
	if c.ExpiresAt > 0 {
		tok.Expiry = time.Unix(c.ExpiresAt, 0)
	}
	return tok
}

// Expired 是否已过期
func (c *Credentials) Expired(now time.Time) bool {
	return c.ExpiresAt > 0 && now.Unix() >= c.ExpiresAt
}

// APIError HubSpot 返回非 2xx
type APIError struct {
	Operation string
	Status    int
	Body      string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("hubspot %s failed: status=%d, body=%s", e.Operation, e.Status, e.Body)
}

func (e *APIError) Unwrap() error {
	return ErrUpstream
}
