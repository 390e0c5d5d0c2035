// Package web holds the embedded HTML templates of the Person pages.
package web

import (
	"embed"
	"io/fs"
	"net/http"
	"net/url"

	"github.com/gofiber/template/html/v2"
)

// Layout is the template every page is rendered into.
const Layout = "layouts/main"

//go:embed templates
var templates embed.FS

// NewEngine returns a Fiber view engine serving the embedded templates.
func NewEngine() *html.Engine {
	sub, err := fs.Sub(templates, "templates")
	if err != nil {
		panic(err)
	}
	engine := html.NewFileSystem(http.FS(sub), ".html")
	engine.AddFunc("fieldError", func(errs map[string]string, field string) string {
		return errs[field]
	})
	// Ids are opaque and may contain reserved characters.
	engine.AddFunc("pathEscape", url.PathEscape)
	return engine
}
