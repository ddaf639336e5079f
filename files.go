package auth

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gofiber/template/django/v3"
)

//go:embed views
var viewsFS embed.FS

// GetViewsFS returns the templates for this package rooted at views/
func GetViewsFS() fs.FS {
	sub, err := fs.Sub(viewsFS, "views")
	if err != nil {
		panic(err)
	}
	return sub
}

// NewViewEngine returns the django engine over the embedded templates.
// Templates are addressed without extension, e.g. "users/login".
func NewViewEngine(debug bool) *django.Engine {
	engine := django.NewFileSystem(http.FS(GetViewsFS()), ".django")
	engine.Debug(debug)
	return engine
}
