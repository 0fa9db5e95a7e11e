package hello

// Output is the response wrapper for greeting endpoints.
type Output struct {
	Body Data
}
