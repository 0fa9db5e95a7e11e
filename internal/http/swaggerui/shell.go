package swaggerui

import (
	"net/http"
	"strconv"
)

// ShellPath is where the HTML page is served.
const ShellPath = "/swagger"

const shellHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>Swagger UI</title>
  <link rel="stylesheet" type="text/css" href="/swagger-ui/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="/swagger-ui/swagger-ui-bundle.js"></script>
  <script>
    window.onload = function () {
      window.ui = SwaggerUIBundle({
        url: "/swagger.json",
        dom_id: "#swagger-ui"
      });
    };
  </script>
</body>
</html>
`

// ShellHandler serves the constant page that loads Swagger UI from the asset
// route and points it at the description document.
func ShellHandler() http.HandlerFunc {
	length := strconv.Itoa(len(shellHTML))
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Content-Length", length)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(shellHTML))
	}
}
