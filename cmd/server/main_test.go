package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/janisto/swagger-playground/internal/http/swaggerui"
	"github.com/janisto/swagger-playground/internal/platform/config"
)

const cssBody = "body { margin: 0; }\n"

func assetDir(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	dir := filepath.Join(base, "swagger-ui")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "swagger-ui.css"), []byte(cssBody), 0o644); err != nil {
		t.Fatalf("write css: %v", err)
	}
	if err := os.WriteFile(filepath.Join(base, "secret.txt"), []byte("top secret"), 0o644); err != nil {
		t.Fatalf("write secret: %v", err)
	}
	return dir
}

func testServer(t *testing.T) chi.Router {
	t.Helper()
	assets := swaggerui.NewAssets(assetDir(t))
	t.Cleanup(func() { _ = assets.Close() })
	router := newRouter(assets)
	router.Get("/panic", func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})
	return router
}

func do(t *testing.T, srv http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	req.Header.Set(chimiddleware.RequestIDHeader, "main-test-req")
	resp := httptest.NewRecorder()
	srv.ServeHTTP(resp, req)
	return resp
}

func message(t *testing.T, resp *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("json unmarshal: %v", err)
	}
	if len(body) != 1 {
		t.Fatalf("expected exactly one field, got %v", body)
	}
	return body["message"]
}

func TestHello(t *testing.T) {
	resp := do(t, testServer(t), http.MethodGet, "/hello")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if got := message(t, resp); got != "Hello, world!" {
		t.Fatalf("expected 'Hello, world!', got %q", got)
	}
}

func TestGreet(t *testing.T) {
	srv := testServer(t)
	for name, want := range map[string]string{
		"Ada":       "Hello, Ada!",
		"Jos%C3%A9": "Hello, José!",
		"%22x%22":   `Hello, "x"!`,
	} {
		resp := do(t, srv, http.MethodGet, "/greet/"+name)
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", name, resp.Code)
		}
		if got := message(t, resp); got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	}
	if resp := do(t, srv, http.MethodGet, "/greet/"); resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for empty name, got %d", resp.Code)
	}
}

func TestSwaggerDocument(t *testing.T) {
	resp := do(t, testServer(t), http.MethodGet, "/swagger.json")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var doc struct {
		Swagger string                    `json:"swagger"`
		Paths   map[string]map[string]any `json:"paths"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &doc); err != nil {
		t.Fatalf("json unmarshal: %v", err)
	}
	if doc.Swagger != "2.0" {
		t.Fatalf("expected swagger 2.0, got %q", doc.Swagger)
	}
	for _, p := range []string{"/hello", "/greet/{name}"} {
		if _, ok := doc.Paths[p]["get"]; !ok {
			t.Fatalf("expected GET %s in document", p)
		}
	}
}

func TestSwaggerShell(t *testing.T) {
	resp := do(t, testServer(t), http.MethodGet, "/swagger")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if ct := resp.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("expected text/html, got %q", ct)
	}
	body := resp.Body.String()
	for _, want := range []string{"/swagger.json", "/swagger-ui/swagger-ui-bundle.js", "/swagger-ui/swagger-ui.css"} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected shell to reference %s", want)
		}
	}
}

func TestAssets(t *testing.T) {
	srv := testServer(t)

	resp := do(t, srv, http.MethodGet, "/swagger-ui/swagger-ui.css")
	if resp.Code != http.StatusOK || resp.Body.String() != cssBody {
		t.Fatalf("expected css asset, got %d %q", resp.Code, resp.Body.String())
	}

	for _, target := range []string{
		"/swagger-ui/../secret.txt",
		"/swagger-ui/%2e%2e/secret.txt",
		"/swagger-ui/..%2Fsecret.txt",
		"/swagger-ui/missing.js",
	} {
		resp := do(t, srv, http.MethodGet, target)
		if resp.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", target, resp.Code)
		}
		if strings.Contains(resp.Body.String(), "top secret") {
			t.Fatalf("%s: leaked file outside the asset root", target)
		}
	}
}

func TestMissingAssetRootStillServesAPI(t *testing.T) {
	assets := swaggerui.NewAssets(filepath.Join(t.TempDir(), "absent"))
	if assets.Err() == nil {
		t.Fatal("expected missing asset root error")
	}
	srv := newRouter(assets)

	if resp := do(t, srv, http.MethodGet, "/swagger-ui/swagger-ui.css"); resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
	for _, target := range []string{"/hello", "/swagger", "/swagger.json"} {
		if resp := do(t, srv, http.MethodGet, target); resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", target, resp.Code)
		}
	}
}

func TestNotFoundReturnsProblemDetails(t *testing.T) {
	resp := do(t, testServer(t), http.MethodGet, "/nonexistent")

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
	if ct := resp.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Fatalf("expected application/problem+json, got %q", ct)
	}
	var problem map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &problem); err != nil {
		t.Fatalf("json unmarshal: %v", err)
	}
	if problem["status"] != float64(http.StatusNotFound) || problem["instance"] != "/nonexistent" {
		t.Fatalf("unexpected problem: %v", problem)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv := testServer(t)
	for _, target := range []string{"/hello", "/greet/Ada", "/swagger.json", "/swagger"} {
		resp := do(t, srv, http.MethodPost, target)
		if resp.Code != http.StatusMethodNotAllowed {
			t.Fatalf("%s: expected 405, got %d", target, resp.Code)
		}
		if allow := resp.Header().Get("Allow"); !strings.Contains(allow, http.MethodGet) {
			t.Fatalf("%s: expected Allow to list GET, got %q", target, allow)
		}
	}
}

func TestRecovererReturnsProblemDetails(t *testing.T) {
	resp := do(t, testServer(t), http.MethodGet, "/panic")

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	if strings.Contains(resp.Body.String(), "boom") {
		t.Fatalf("panic value leaked: %s", resp.Body.String())
	}
}

func TestMiddlewareHeaders(t *testing.T) {
	srv := testServer(t)

	api := do(t, srv, http.MethodGet, "/hello")
	if got := api.Header().Get(chimiddleware.RequestIDHeader); got != "main-test-req" {
		t.Fatalf("expected request id echo, got %q", got)
	}
	if got := api.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Fatalf("expected X-Frame-Options DENY, got %q", got)
	}
	if got := api.Header().Get("Vary"); !strings.Contains(got, "Accept") {
		t.Fatalf("expected Vary: Accept, got %q", got)
	}

	asset := do(t, srv, http.MethodGet, "/swagger-ui/swagger-ui.css")
	if got := asset.Header().Get("X-Frame-Options"); got != "" {
		t.Fatalf("expected no X-Frame-Options on assets, got %q", got)
	}
	if got := asset.Header().Get("Cache-Control"); !strings.HasPrefix(got, "public") {
		t.Fatalf("expected cacheable asset, got %q", got)
	}
}

func TestRunServesAndShutsDown(t *testing.T) {
	cfg := config.Config{Host: "127.0.0.1", Port: 0, AssetsDir: assetDir(t), LogLevel: "error"}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ready := make(chan string, 1)
	done := make(chan error, 1)
	go func() { done <- run(ctx, cfg, ready) }()

	var addr string
	select {
	case addr = <-ready:
	case err := <-done:
		t.Fatalf("run exited early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start")
	}

	resp, err := http.Get("http://" + addr + "/hello")
	if err != nil {
		t.Fatalf("GET /hello: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "Hello, world!") {
		t.Fatalf("unexpected response %d %s", resp.StatusCode, body)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean shutdown, got %v", err)
		}
	case <-time.After(shutdownTimeout + time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestRunListenError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer func() { _ = ln.Close() }()
	port := ln.Addr().(*net.TCPAddr).Port

	cfg := config.Config{Host: "127.0.0.1", Port: port, AssetsDir: assetDir(t), LogLevel: "error"}
	if err := run(context.Background(), cfg, nil); err == nil {
		t.Fatal("expected listen error on occupied port " + strconv.Itoa(port))
	}
}

func TestRootCmdVersion(t *testing.T) {
	cmd, err := newRootCmd()
	if err != nil {
		t.Fatalf("newRootCmd: %v", err)
	}
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--version"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out.String(), Version) {
		t.Fatalf("expected version %q in %q", Version, out.String())
	}
}

func TestRootCmdRejectsInvalidConfig(t *testing.T) {
	for _, key := range []string{"SWAGGERUI_PORT", "PORT", "SWAGGERUI_LOG_LEVEL"} {
		t.Setenv(key, "")
		_ = os.Unsetenv(key)
	}
	tests := [][]string{
		{"--port", "0"},
		{"--log-level", "chatty"},
		{"unexpected-arg"},
	}
	for _, args := range tests {
		cmd, err := newRootCmd()
		if err != nil {
			t.Fatalf("newRootCmd: %v", err)
		}
		cmd.SetOut(io.Discard)
		cmd.SetErr(io.Discard)
		cmd.SetArgs(args)
		if err := cmd.Execute(); err == nil {
			t.Fatalf("%v: expected error", args)
		}
	}
}
