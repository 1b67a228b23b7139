package hubspot

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"connector/integrations/config"
	"connector/tools/httpclient"
	"connector/tools/kv"
	"connector/tools/logger"
	"connector/tools/randutil"

	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"
)

// Client HubSpot OAuth 与 CRM 接口封装，state 与凭证保存在 kv.Store 中
type Client struct {
	oauth      *oauth2.Config
	apiDomain  string
	configured bool
	store      kv.Store
	httpClient *http.Client
	logger     *logger.Logger
	now        func() time.Time
}

// NewClient 创建 HubSpot 客户端
func NewClient(cfg config.HubSpotConfig, store kv.Store, httpClient *http.Client, log *logger.Logger) *Client {
	if httpClient == nil {
		httpClient = httpclient.CreateClient()
	}
	return &Client{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       cfg.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.AuthorizationURL,
				TokenURL:  cfg.APIDomain + "/oauth/v1/token",
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		apiDomain:  cfg.APIDomain,
		configured: cfg.Configured(),
		store:      store,
		httpClient: httpClient,
		logger:     log,
		now:        time.Now,
	}
}

// oauthContext 让 oauth2 使用我们自己的 http.Client
func (c *Client) oauthContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
}

// Authorize 生成 state 并返回 HubSpot 授权链接
func (c *Client) Authorize(ctx context.Context, userID, orgID string) (authURL string, err error) {
	defer func() { record("authorize", err) }()

	if !c.configured {
		return "", ErrNotConfigured
	}
	if userID == "" || orgID == "" {
		return "", ErrMissingIdentity
	}

	token, err := randutil.TokenURLSafe(32)
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(State{State: token, UserID: userID, OrgID: orgID})
	if err != nil {
		return "", fmt.Errorf("marshal state: %w", err)
	}
	if err := c.store.Set(ctx, stateKey(orgID, userID), data, stateTTL); err != nil {
		return "", fmt.Errorf("save state: %w", err)
	}

	c.logger.Debug("HubSpot authorization started for %s/%s", orgID, userID)
	return c.oauth.AuthCodeURL(base64.RawURLEncoding.EncodeToString(data)), nil
}

// DecodeState 解析回调中的 state 参数
func DecodeState(encoded string) (*State, error) {
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	var st State
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	if st.State == "" || st.UserID == "" || st.OrgID == "" {
		return nil, ErrInvalidState
	}
	return &st, nil
}

// OAuth2Callback 校验 state，用 code 换取 token 并保存凭证
func (c *Client) OAuth2Callback(ctx context.Context, params CallbackParams) (err error) {
	defer func() { record("oauth2callback", err) }()

	if !c.configured {
		return ErrNotConfigured
	}
	if params.Error != "" {
		return fmt.Errorf("%w: %s", ErrAuthorizationDenied, params.Error)
	}
	if params.Code == "" {
		return ErrMissingCode
	}

	st, err := DecodeState(params.State)
	if err != nil {
		return err
	}

	saved, err := c.store.Get(ctx, stateKey(st.OrgID, st.UserID))
	if errors.Is(err, kv.ErrNotFound) {
		return ErrStateMismatch
	}
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}
	var savedState State
	if err := json.Unmarshal(saved, &savedState); err != nil || savedState.State != st.State {
		return ErrStateMismatch
	}

	// 换取 token 的同时删除 state
	var tok *oauth2.Token
	var g errgroup.Group
	g.Go(func() error {
		t, err := c.oauth.Exchange(c.oauthContext(ctx), params.Code)
		if err != nil {
			return fmt.Errorf("%w: exchange code: %v", ErrUpstream, err)
		}
		tok = t
		return nil
	})
	g.Go(func() error {
		if err := c.store.Delete(ctx, stateKey(st.OrgID, st.UserID)); err != nil {
			return fmt.Errorf("delete state: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	data, err := json.Marshal(credentialsFromToken(tok))
	if err != nil {
		return fmt.Errorf("marshal credentials: %w", err)
	}
	if err := c.store.Set(ctx, credentialsKey(st.OrgID, st.UserID), data, credentialsTTL); err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}

	c.logger.Info("HubSpot credentials stored for %s/%s", st.OrgID, st.UserID)
	return nil
}

// Credentials 取出并删除已保存的凭证，只能取一次
func (c *Client) Credentials(ctx context.Context, userID, orgID string) (creds *Credentials, err error) {
	defer func() { record("credentials", err) }()

	if userID == "" || orgID == "" {
		return nil, ErrMissingIdentity
	}

	key := credentialsKey(orgID, userID)
	data, err := c.store.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, ErrNoCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("load credentials: %w", err)
	}

	creds = &Credentials{}
	if err := json.Unmarshal(data, creds); err != nil || creds.AccessToken == "" {
		return nil, ErrNoCredentials
	}
	if err := c.store.Delete(ctx, key); err != nil {
		return nil, fmt.Errorf("delete credentials: %w", err)
	}

	return creds, nil
}

// refresh 凭证过期时使用 refresh_token 换取新 token
func (c *Client) refresh(ctx context.Context, creds *Credentials) (*Credentials, error) {
	if !creds.Expired(c.now()) {
		return creds, nil
	}
	if creds.RefreshToken == "" {
		return nil, fmt.Errorf("%w: access token expired and no refresh token", ErrNoCredentials)
	}

	c.logger.Info("HubSpot access token expired, refreshing")
	stale := creds.Token()
	// 强制视为过期，交由 TokenSource 刷新
	stale.Expiry = time.Unix(1, 0)
	tok, err := c.oauth.TokenSource(c.oauthContext(ctx), stale).Token()
	if err != nil {
		return nil, fmt.Errorf("%w: refresh token: %v", ErrUpstream, err)
	}
	return credentialsFromToken(tok), nil
}
