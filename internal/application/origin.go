package application

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// spaResponseWriter swallows 404s from the file server so the site's
// index.html can be served for client-side routes instead.
type spaResponseWriter struct {
	http.ResponseWriter
	status int
}

func (w *spaResponseWriter) WriteHeader(status int) {
	w.status = status
	if status != http.StatusNotFound {
		w.ResponseWriter.WriteHeader(status)
	}
}

func (w *spaResponseWriter) Write(p []byte) (int, error) {
	if w.status == http.StatusNotFound {
		return len(p), nil
	}
	return w.ResponseWriter.Write(p)
}

// newOriginHandler serves the exported site from staticDir, falling back to
// index.html for unknown paths. Without a static directory every request is a 404.
func newOriginHandler(staticDir string, logger *zap.Logger) (http.Handler, error) {
	if strings.TrimSpace(staticDir) == "" {
		return http.NotFoundHandler(), nil
	}

	info, err := os.Stat(staticDir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, &os.PathError{Op: "stat", Path: staticDir, Err: os.ErrInvalid}
	}

	indexPath := filepath.Join(staticDir, "index.html")
	fileServer := http.FileServer(http.Dir(staticDir))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &spaResponseWriter{ResponseWriter: w}
		fileServer.ServeHTTP(sw, r)
		if sw.status != http.StatusNotFound {
			return
		}

		// The file server already set its own headers for the 404 body.
		w.Header().Del("X-Content-Type-Options")
		if _, err := os.Stat(indexPath); err != nil {
			logger.Warn("index fallback unavailable", zap.String("path", indexPath), zap.Error(err))
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte("404 page not found\n"))
			return
		}
		w.Header().Del("Content-Type")
		http.ServeFile(w, r, indexPath)
	}), nil
}
