package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"connector/tools/httpclient"
	"connector/tools/kv"
	"connector/tools/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

const (
	// DefaultConnectionCheckURL 根组件启动时探测的后端地址
	DefaultConnectionCheckURL = "http://localhost:8000/testconnection"

	KVBackendRedis  = "redis"
	KVBackendMemory = "memory"
)

// ErrPersistenceDisabled 未配置 MYSQL_HOST
var ErrPersistenceDisabled = errors.New("item persistence is disabled (MYSQL_HOST is empty)")

// Config 应用配置结构
type Config struct {
	// 服务器配置
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// 日志配置
	LogLevel string

	// 性能配置
	MaxIdleConns        int
	MaxIdleConnsPerHost int
	IdleConnTimeout     time.Duration

	// 连通性检查
	ConnectionCheckURL     string
	ConnectionCheckTimeout time.Duration

	CORSAllowOrigins []string

	HubSpot HubSpotConfig

	// KV 配置
	KVBackend string
	Redis     kv.RedisOptions

	// 告警 webhook，为空时不发送
	FeishuWebhookURL string

	//mysql 配置
	mysqlHost     string
	mysqlPort     int
	mysqlUser     string
	mysqlPassword string
	mysqlDatabase string
	debug         bool
	db            *gorm.DB
	kvStore       kv.Store
	lock          sync.Mutex
	Application   *application
}

// HubSpotConfig HubSpot OAuth 应用配置
type HubSpotConfig struct {
	ClientID         string
	ClientSecret     string
	Scopes           []string
	RedirectURI      string
	AuthorizationURL string
	APIDomain        string
}

// Configured 是否具备发起 OAuth 的最小配置
func (h HubSpotConfig) Configured() bool {
	return h.ClientID != "" && h.ClientSecret != "" && h.RedirectURI != ""
}

// 应用服务
type application struct {
	origins []string
	server  *gin.Engine
	lock    sync.Mutex
	root    gin.IRouter
}

var (
	cfg    *Config
	cfgErr error
	once   sync.Once
)

// LoadConfig 加载配置（进程内单例）
func LoadConfig() (*Config, error) {
	once.Do(func() {
		cfg, cfgErr = Load()
	})
	return cfg, cfgErr
}

// Load 每次调用都重新读取 .env、CONFIG_FILE 与环境变量
func Load() (*Config, error) {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	src := &source{}
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		values, err := readFile(path)
		if err != nil {
			return nil, err
		}
		src.file = values
	}

	c := &Config{
		Port:     src.str("PORT", "8000"),
		LogLevel: src.str("LOG_LEVEL", "info"),

		// 超时配置
		ReadTimeout:     src.duration("READ_TIMEOUT", 10*time.Second),
		WriteTimeout:    src.duration("WRITE_TIMEOUT", 10*time.Second),
		ShutdownTimeout: src.duration("SHUTDOWN_TIMEOUT", 5*time.Second),

		// 连接池配置
		MaxIdleConns:        src.int("MAX_IDLE_CONNS", 100),
		MaxIdleConnsPerHost: src.int("MAX_IDLE_CONNS_PER_HOST", 10),
		IdleConnTimeout:     src.duration("IDLE_CONN_TIMEOUT", 90*time.Second),

		ConnectionCheckURL:     src.str("CONNECTION_CHECK_URL", DefaultConnectionCheckURL),
		ConnectionCheckTimeout: src.duration("CONNECTION_CHECK_TIMEOUT", 10*time.Second),

		CORSAllowOrigins: splitList(src.str("CORS_ALLOW_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000")),

		HubSpot: HubSpotConfig{
			ClientID:         src.str("HUBSPOT_CLIENT_ID", ""),
			ClientSecret:     src.str("HUBSPOT_CLIENT_SECRET", ""),
			Scopes:           splitScopes(src.str("REQUIRED_SCOPES", "crm.objects.companies.read")),
			RedirectURI:      src.str("HUBSPOT_REDIRECT_URI", "http://localhost:8000/integrations/hubspot/oauth2callback"),
			AuthorizationURL: src.str("HUBSPOT_AUTHORIZATION_URL", "https://app.hubspot.com/oauth/authorize"),
			APIDomain:        strings.TrimRight(src.str("HUBSPOT_API_DOMAIN", "https://api.hubapi.com"), "/"),
		},

		KVBackend: strings.ToLower(src.str("KV_BACKEND", KVBackendRedis)),
		Redis: kv.RedisOptions{
			Host:        src.str("REDIS_HOST", "localhost"),
			Port:        src.int("REDIS_PORT", 6379),
			Password:    src.str("REDIS_PASSWORD", ""),
			DB:          src.int("REDIS_DB", 0),
			DialTimeout: src.duration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout: src.duration("REDIS_READ_TIMEOUT", 3*time.Second),
		},

		FeishuWebhookURL: src.str("FEISHU_WEBHOOK_URL", ""),

		//mysql 配置，MYSQL_HOST 为空表示不持久化
		mysqlHost:     src.str("MYSQL_HOST", ""),
		mysqlPort:     src.int("MYSQL_PORT", 3306),
		mysqlUser:     src.str("MYSQL_USER", "root"),
		mysqlPassword: src.str("MYSQL_PASSWORD", ""),
		mysqlDatabase: src.str("MYSQL_DATABASE", "integrations"),
		debug:         src.str("DEBUG", "false") == "true",
	}
	c.Application = &application{origins: c.CORSAllowOrigins}

	// 验证必需的配置
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return c, nil
}

func (a *application) GinServer() *gin.Engine {
	a.lock.Lock()
	defer a.lock.Unlock()

	if a.server == nil {
		a.server = gin.New()
		a.server.Use(gin.Logger(), gin.Recovery(), middleware.RequestID())

		corsCfg := cors.DefaultConfig()
		corsCfg.AllowCredentials = true
		corsCfg.AddAllowHeaders("Authorization", middleware.RequestIDHeader)
		if len(a.origins) == 0 {
			corsCfg.AllowAllOrigins = true
			corsCfg.AllowCredentials = false
		} else {
			corsCfg.AllowOrigins = a.origins
		}
		a.server.Use(cors.New(corsCfg))
	}

	return a.server
}

func (a *application) GinRootRouter() gin.IRouter {
	r := a.GinServer()

	a.lock.Lock()
	defer a.lock.Unlock()
	if a.root == nil {
		a.root = r.Group("app").Group("api").Group("v1")
	}

	return a.root
}

// Validate 验证配置
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	u, err := url.Parse(c.ConnectionCheckURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("CONNECTION_CHECK_URL %q is not an absolute URL", c.ConnectionCheckURL)
	}
	switch c.KVBackend {
	case KVBackendRedis, KVBackendMemory:
	default:
		return fmt.Errorf("KV_BACKEND must be %q or %q, got %q", KVBackendRedis, KVBackendMemory, c.KVBackend)
	}
	return nil
}

// HTTPClientOptions 出站请求连接池配置
func (c *Config) HTTPClientOptions() httpclient.Options {
	return httpclient.Options{
		Timeout:             30 * time.Second,
		MaxIdleConns:        c.MaxIdleConns,
		MaxIdleConnsPerHost: c.MaxIdleConnsPerHost,
		IdleConnTimeout:     c.IdleConnTimeout,
	}
}

// PersistenceEnabled 是否配置了 MySQL
func (c *Config) PersistenceEnabled() bool {
	return c.mysqlHost != ""
}

// DNS 数据库连接字符串
func (c *Config) DNS() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.mysqlUser, c.mysqlPassword, c.mysqlHost, c.mysqlPort, c.mysqlDatabase)
}

// GetDB 获取DB，未配置时返回 ErrPersistenceDisabled
func (c *Config) GetDB() (*gorm.DB, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if !c.PersistenceEnabled() {
		return nil, ErrPersistenceDisabled
	}
	if c.db == nil {
		db, err := gorm.Open(mysql.Open(c.DNS()), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to connect mysql: %w", err)
		}
		c.db = db

		if c.debug {
			c.db = c.db.Debug()
		}
	}

	return c.db, nil
}

// GetKV 获取 KV 存储（OAuth state 与凭证）
func (c *Config) GetKV(ctx context.Context) (kv.Store, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.kvStore != nil {
		return c.kvStore, nil
	}

	switch c.KVBackend {
	case KVBackendMemory:
		store := kv.NewMemoryStore()
		store.StartJanitor(kv.DefaultPurgeInterval)
		c.kvStore = store
	default:
		store, err := kv.NewRedisStore(ctx, c.Redis)
		if err != nil {
			return nil, err
		}
		c.kvStore = store
	}
	return c.kvStore, nil
}

// Close 释放 KV 与数据库连接
func (c *Config) Close() error {
	c.lock.Lock()
	defer c.lock.Unlock()

	var errs []error
	if c.kvStore != nil {
		errs = append(errs, c.kvStore.Close())
		c.kvStore = nil
	}
	if c.db != nil {
		if sqlDB, err := c.db.DB(); err == nil {
			errs = append(errs, sqlDB.Close())
		}
		c.db = nil
	}
	return errors.Join(errs...)
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// splitScopes 空格或逗号分隔
func splitScopes(v string) []string {
	return strings.FieldsFunc(v, func(r rune) bool { return r == ' ' || r == ',' })
}

// source 环境变量优先，其次 CONFIG_FILE，最后默认值
type source struct {
	file map[string]string
}

func (s *source) lookup(key string) (string, bool) {
	if value := os.Getenv(key); value != "" {
		return value, true
	}
	if value, ok := s.file[key]; ok && value != "" {
		return value, true
	}
	return "", false
}

// str 获取字符串配置
func (s *source) str(key, defaultValue string) string {
	if value, ok := s.lookup(key); ok {
		return value
	}
	return defaultValue
}

// int 获取整数配置
func (s *source) int(key string, defaultValue int) int {
	if value, ok := s.lookup(key); ok {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// duration 获取时间间隔配置，纯数字按秒解析，也接受 "1m30s" 形式
func (s *source) duration(key string, defaultValue time.Duration) time.Duration {
	value, ok := s.lookup(key)
	if !ok {
		return defaultValue
	}
	if intValue, err := strconv.Atoi(value); err == nil {
		return time.Duration(intValue) * time.Second
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	return defaultValue
}
