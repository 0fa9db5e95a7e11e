package docs

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/janisto/swagger-playground/internal/platform/respond"
)

// Path is where the description document is served.
const Path = "/swagger.json"

var documentJSON = sync.OnceValues(func() ([]byte, error) {
	return json.Marshal(document)
})

// Handler serves the description document as JSON. The document is encoded
// once and the bytes are reused for every request.
func Handler() http.HandlerFunc {
	return handler(documentJSON)
}

func handler(encode func() ([]byte, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := encode()
		if err != nil {
			respond.InternalError(w, r, fmt.Errorf("encode api description: %w", err))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
	}
}
