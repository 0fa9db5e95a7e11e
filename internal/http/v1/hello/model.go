package hello

// Data models the response payload for greeting endpoints.
type Data struct {
	Message string `json:"message" doc:"Greeting message" example:"Hello, world!"`
}
