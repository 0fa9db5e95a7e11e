// Package respond renders RFC 9457 problem details for errors raised outside
// huma operations: unmatched routes, wrong methods, panics and plain handlers.
package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	applog "github.com/janisto/swagger-playground/internal/platform/logging"
)

const (
	problemContentType = "application/problem+json"

	msgNotFound       = "resource not found"
	msgInternalServer = "internal server error"
)

// WriteProblem writes a problem+json body for status and logs it. Errors in
// errs are logged but never rendered to the client.
func WriteProblem(w http.ResponseWriter, r *http.Request, status int, detail string, errs ...error) {
	if strings.TrimSpace(detail) == "" {
		detail = http.StatusText(status)
	}
	logProblem(r, status, detail, errors.Join(errs...))

	problem := huma.ErrorModel{
		Title:    http.StatusText(status),
		Status:   status,
		Detail:   detail,
		Instance: r.URL.Path,
	}
	w.Header().Set("Content-Type", problemContentType)
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(problem); err != nil {
		applog.LogError(r.Context(), "failed to write problem response", err)
	}
}

// NotFound writes the shared 404 problem.
func NotFound(w http.ResponseWriter, r *http.Request) {
	WriteProblem(w, r, http.StatusNotFound, msgNotFound)
}

// InternalError writes the shared 500 problem and logs err.
func InternalError(w http.ResponseWriter, r *http.Request, err error) {
	WriteProblem(w, r, http.StatusInternalServerError, msgInternalServer, err)
}

// NotFoundHandler emits a problem+json 404 response.
func NotFoundHandler() http.HandlerFunc {
	return NotFound
}

// MethodNotAllowedHandler emits a problem+json 405 response with an Allow header.
func MethodNotAllowedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if allow := allowedMethods(r); len(allow) > 0 {
			w.Header().Set("Allow", strings.Join(allow, ", "))
		}
		WriteProblem(w, r, http.StatusMethodNotAllowed, fmt.Sprintf("method %s not allowed", r.Method))
	}
}

// Recoverer converts panics into 500 problem responses. The panic value and
// stack are logged only.
func Recoverer() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				err, ok := rec.(error)
				if !ok {
					err = fmt.Errorf("%v", rec)
				}
				InternalError(w, r, fmt.Errorf("panic: %w\n%s", err, debug.Stack()))
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// allowedMethods asks chi which methods would have matched the request path.
func allowedMethods(r *http.Request) []string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil || rctx.Routes == nil {
		return nil
	}
	routePath := rctx.RoutePath
	if routePath == "" {
		routePath = r.URL.RawPath
		if routePath == "" {
			routePath = r.URL.Path
		}
	}

	candidates := []string{
		http.MethodGet,
		http.MethodHead,
		http.MethodPost,
		http.MethodPut,
		http.MethodPatch,
		http.MethodDelete,
		http.MethodOptions,
	}
	allowed := make([]string, 0, len(candidates))
	for _, method := range candidates {
		if rctx.Routes.Match(chi.NewRouteContext(), method, routePath) {
			allowed = append(allowed, method)
		}
	}
	return allowed
}

func logProblem(r *http.Request, status int, detail string, err error) {
	ctx := r.Context()
	fields := []zap.Field{
		zap.Int("status", status),
		zap.String("detail", detail),
		zap.String("path", r.URL.Path),
	}
	if status >= 500 {
		applog.LogError(ctx, "request failed", err, fields...)
		return
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	applog.LogWarn(ctx, "request rejected", fields...)
}
