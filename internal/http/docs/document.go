// Package docs holds the hand-written Swagger 2.0 description of the
// greeting API and serves it as JSON.
package docs

// Document is the subset of a Swagger 2.0 document this service publishes.
type Document struct {
	Swagger  string              `json:"swagger"`
	Info     Info                `json:"info"`
	BasePath string              `json:"basePath"`
	Schemes  []string            `json:"schemes"`
	Produces []string            `json:"produces,omitempty"`
	Paths    map[string]PathItem `json:"paths"`
}

// Info describes the API as a whole.
type Info struct {
	Title       string `json:"title"`
	Version     string `json:"version"`
	Description string `json:"description,omitempty"`
}

// PathItem lists the operations available on a path.
type PathItem struct {
	Get *Operation `json:"get,omitempty"`
}

// Operation describes one method on a path. Responses are keyed by status code.
type Operation struct {
	OperationID string              `json:"operationId,omitempty"`
	Summary     string              `json:"summary"`
	Tags        []string            `json:"tags,omitempty"`
	Parameters  []Parameter         `json:"parameters,omitempty"`
	Responses   map[string]Response `json:"responses"`
}

// Parameter is a non-body parameter.
type Parameter struct {
	Name        string `json:"name"`
	In          string `json:"in"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required"`
	Type        string `json:"type"`
}

// Response describes one status code of an operation.
type Response struct {
	Description string  `json:"description"`
	Schema      *Schema `json:"schema,omitempty"`
}

// Schema is the JSON Schema subset used by the response bodies.
type Schema struct {
	Type       string             `json:"type"`
	Properties map[string]*Schema `json:"properties,omitempty"`
	Required   []string           `json:"required,omitempty"`
	Example    string             `json:"example,omitempty"`
}

func messageSchema(example string) *Schema {
	return &Schema{
		Type: "object",
		Properties: map[string]*Schema{
			"message": {Type: "string", Example: example},
		},
		Required: []string{"message"},
	}
}

// document is never mutated after package initialization.
var document = Document{
	Swagger: "2.0",
	Info: Info{
		Title:       "Greeting API",
		Version:     "1.0.0",
		Description: "Two greeting endpoints, described by hand.",
	},
	BasePath: "/",
	Schemes:  []string{"http"},
	Produces: []string{"application/json"},
	Paths: map[string]PathItem{
		"/hello": {
			Get: &Operation{
				OperationID: "get-hello",
				Summary:     "Return a fixed greeting",
				Tags:        []string{"Greetings"},
				Responses: map[string]Response{
					"200": {Description: "A greeting for the world", Schema: messageSchema("Hello, world!")},
				},
			},
		},
		"/greet/{name}": {
			Get: &Operation{
				OperationID: "get-greeting",
				Summary:     "Return a personalized greeting",
				Tags:        []string{"Greetings"},
				Parameters: []Parameter{
					{Name: "name", In: "path", Description: "Name to greet", Required: true, Type: "string"},
				},
				Responses: map[string]Response{
					"200": {Description: "A greeting for name", Schema: messageSchema("Hello, Ada!")},
				},
			},
		},
	},
}
