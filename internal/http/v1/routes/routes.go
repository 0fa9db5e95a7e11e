// Package routes wires every HTTP route of the service.
package routes

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	"github.com/janisto/swagger-playground/internal/http/docs"
	"github.com/janisto/swagger-playground/internal/http/swaggerui"
	"github.com/janisto/swagger-playground/internal/http/v1/hello"
)

// Route binds a method and a chi pattern to a plain handler.
type Route struct {
	Method  string
	Pattern string
	Handler http.Handler
}

// Table returns the plain (non-huma) routes. Patterns do not overlap, so
// at most one row matches a request.
func Table(assets http.Handler) []Route {
	return []Route{
		{Method: http.MethodGet, Pattern: docs.Path, Handler: docs.Handler()},
		{Method: http.MethodGet, Pattern: swaggerui.AssetsPrefix + "*", Handler: assets},
		{Method: http.MethodGet, Pattern: swaggerui.ShellPath, Handler: swaggerui.ShellHandler()},
	}
}

// Register mounts the greeting operations on api and the route table on router.
func Register(router chi.Router, api huma.API, assets http.Handler) {
	hello.Register(api)
	for _, rt := range Table(assets) {
		router.Method(rt.Method, rt.Pattern, rt.Handler)
	}
}
