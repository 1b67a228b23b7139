package ioc

// Container 以名称注册对象，并在启动时统一初始化
type Container interface {
	RegisterContainer(name string, obj Object)
	GetMapContainer(name string) any
	Init() error
	Names() []string
}

// Object 需要在启动阶段完成初始化的组件
type Object interface {
	Init() error
}
