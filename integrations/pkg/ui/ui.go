package ui

import (
	"embed"
	"html/template"
	"io"
	"sync"
)

const (
	AppName = "ui"

	DefaultUserID = "TestUser"
	DefaultOrgID  = "TestOrg"
)

// Integration 表单中可连接的集成
type Integration struct {
	Key  string
	Name string
}

// Integrations 当前支持的集成
var Integrations = []Integration{
	{Key: "hubspot", Name: "HubSpot"},
}

//go:embed templates/*.tmpl
var templateFS embed.FS

var (
	tmpl     *template.Template
	tmplOnce sync.Once
)

// Templates 解析内嵌模板："root" 是页面容器，"integration-form" 是其唯一子节点
func Templates() *template.Template {
	tmplOnce.Do(func() {
		tmpl = template.Must(template.New("ui").Funcs(template.FuncMap{
			"integrations":  func() []Integration { return Integrations },
			"defaultUserID": func() string { return DefaultUserID },
			"defaultOrgID":  func() string { return DefaultOrgID },
		}).ParseFS(templateFS, "templates/*.tmpl"))
	})
	return tmpl
}

// RenderRoot 渲染根页面。输出不依赖任何连通性检查结果。
func RenderRoot(w io.Writer) error {
	return Templates().ExecuteTemplate(w, "root", nil)
}
