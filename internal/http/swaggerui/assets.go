// Package swaggerui serves the Swagger UI distribution from a directory and
// the HTML page that mounts it.
package swaggerui

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	applog "github.com/janisto/swagger-playground/internal/platform/logging"
	"github.com/janisto/swagger-playground/internal/platform/respond"
)

// AssetsPrefix is the URL prefix under which asset files are served.
const AssetsPrefix = "/swagger-ui/"

const assetCacheControl = "public, max-age=3600"

// Assets serves files from an asset root. Every lookup goes through an
// os.Root, so neither ".." nor symlinks can reach outside the directory.
type Assets struct {
	dir  string
	root *os.Root
	err  error
}

// NewAssets opens dir as the asset root. When dir cannot be opened the
// returned Assets answers 404 to every request and Err reports why.
func NewAssets(dir string) *Assets {
	root, err := os.OpenRoot(dir)
	if err != nil {
		return &Assets{dir: dir, err: fmt.Errorf("open asset root %s: %w", dir, err)}
	}
	return &Assets{dir: dir, root: root}
}

// Err reports the error from opening the asset root, if any.
func (a *Assets) Err() error {
	return a.err
}

// Dir returns the configured asset root.
func (a *Assets) Dir() string {
	return a.dir
}

// Close releases the asset root.
func (a *Assets) Close() error {
	if a.root == nil {
		return nil
	}
	return a.root.Close()
}

// ServeHTTP serves the file named by the route wildcard.
func (a *Assets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "*")
	if r.URL.RawPath != "" {
		// chi matched on the escaped path, so the wildcard is still escaped.
		unescaped, err := url.PathUnescape(name)
		if err != nil {
			respond.NotFound(w, r)
			return
		}
		name = unescaped
	}
	a.serve(w, r, name)
}

func (a *Assets) serve(w http.ResponseWriter, r *http.Request, name string) {
	if !validAssetName(name) {
		applog.LogWarn(r.Context(), "asset path rejected", zap.String("asset", name))
		respond.NotFound(w, r)
		return
	}
	if a.root == nil {
		respond.NotFound(w, r)
		return
	}

	f, err := a.root.Open(name)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			applog.LogWarn(r.Context(), "asset open failed", zap.String("asset", name), zap.Error(err))
		}
		respond.NotFound(w, r)
		return
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		respond.InternalError(w, r, fmt.Errorf("stat asset %s: %w", name, err))
		return
	}
	if info.IsDir() {
		respond.NotFound(w, r)
		return
	}

	ctype, err := contentType(name, f)
	if err != nil {
		respond.InternalError(w, r, fmt.Errorf("detect content type of %s: %w", name, err))
		return
	}
	h := w.Header()
	h.Set("Content-Type", ctype)
	h.Set("Cache-Control", assetCacheControl)
	h.Set("X-Content-Type-Options", "nosniff")
	http.ServeContent(w, r, name, info.ModTime(), f)
}

// validAssetName accepts slash-separated relative names without ".", ".."
// or empty elements. Backslashes and NUL bytes are refused as well since
// some platforms treat them as separators or terminators.
func validAssetName(name string) bool {
	if name == "" || name == "." {
		return false
	}
	if strings.ContainsAny(name, "\\\x00") {
		return false
	}
	return fs.ValidPath(name)
}

// contentType infers the type from the extension, falling back to content
// sniffing. rs is rewound before returning.
func contentType(name string, rs io.ReadSeeker) (string, error) {
	if ctype := mime.TypeByExtension(path.Ext(name)); ctype != "" {
		return ctype, nil
	}
	m, err := mimetype.DetectReader(rs)
	if err != nil {
		return "", err
	}
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return m.String(), nil
}
