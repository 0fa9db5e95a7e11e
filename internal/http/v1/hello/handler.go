// Package hello serves the greeting endpoints.
package hello

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	applog "github.com/janisto/swagger-playground/internal/platform/logging"
)

const defaultGreeting = "Hello, world!"

// Register wires the greeting routes into the provided API.
func Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-hello",
		Method:      http.MethodGet,
		Path:        "/hello",
		Summary:     "Return a fixed greeting",
		Tags:        []string{"Greetings"},
	}, helloHandler)

	huma.Register(api, huma.Operation{
		OperationID: "get-greeting",
		Method:      http.MethodGet,
		Path:        "/greet/{name}",
		Summary:     "Return a personalized greeting",
		Tags:        []string{"Greetings"},
	}, greetHandler)
}

// Greeting returns the message for name. An empty name yields the default greeting.
func Greeting(name string) string {
	if name == "" {
		return defaultGreeting
	}
	return "Hello, " + name + "!"
}

func helloHandler(ctx context.Context, _ *struct{}) (*Output, error) {
	applog.LogInfo(ctx, "hello get", zap.String("path", "/hello"))
	return &Output{Body: Data{Message: defaultGreeting}}, nil
}

func greetHandler(ctx context.Context, input *GreetInput) (*Output, error) {
	applog.LogInfo(ctx, "greet get", zap.String("path", "/greet/{name}"), zap.String("name", input.Name))
	return &Output{Body: Data{Message: Greeting(input.Name)}}, nil
}
