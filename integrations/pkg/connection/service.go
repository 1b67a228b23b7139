package connection

import (
	"connector/integrations/config"
	"connector/integrations/pkg/notify"
	"connector/tools/httpclient"
	"connector/tools/ioc"
	"connector/tools/logger"
)

func init() {
	ioc.ConController.RegisterContainer(AppName, &Service{})
}

// Service 注册到 ioc 的连通性检查服务
type Service struct {
	*Checker
}

func (s *Service) Init() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	log := logger.NewLogger(cfg.LogLevel)
	s.Checker = NewChecker(cfg.ConnectionCheckURL, log,
		WithTimeout(cfg.ConnectionCheckTimeout),
		WithHTTPClient(httpclient.NewClient(cfg.HTTPClientOptions())),
		WithNotifier(notify.NewWebhookSender(cfg.FeishuWebhookURL, nil)),
	)
	log.Info("Connection checker initialized, target: %s", cfg.ConnectionCheckURL)
	return nil
}

// FromContainer 从 ioc 获取已初始化的服务
func FromContainer() *Service {
	svc, _ := ioc.ConController.GetMapContainer(AppName).(*Service)
	return svc
}
