// Package apiconfig builds the huma configuration shared by the server and tests.
package apiconfig

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor"
	"github.com/go-chi/chi/v5"
)

// New returns a huma config that only serves registered operations. The
// generated OpenAPI, docs and schema routes are disabled because the service
// publishes its own description document, and the schema link transformer is
// dropped so response bodies carry no $schema field.
func New(title, version string) huma.Config {
	cfg := huma.DefaultConfig(title, version)
	cfg.OpenAPIPath = ""
	cfg.DocsPath = ""
	cfg.SchemasPath = ""
	cfg.CreateHooks = nil
	return cfg
}

// Mount creates a huma API on router using New.
func Mount(router chi.Router, title, version string) huma.API {
	return humachi.New(router, New(title, version))
}
