package ioc

// ConController 业务服务容器，先于 Api 初始化
var ConController Container = NewMapContainer("serviceContainer")

// Api HTTP 处理器容器，Init 中从 ConController 取依赖并注册路由
var Api Container = NewMapContainer("apiContainer")
