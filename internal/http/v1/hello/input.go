package hello

// GreetInput carries the name captured from the path. It is used verbatim.
type GreetInput struct {
	Name string `path:"name" doc:"Name to greet" example:"Ada"`
}
