package preview

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
)

// Handler serves the generated output tree read-only, the way the
// production static host does. Reads go through a short-TTL cache that
// emulates the host's caching window, so a re-run of the merger shows
// up after the TTL just like it would in production.
type Handler struct {
	root   string
	cache  *cache.Cache
	logger *logrus.Logger
}

func NewHandler(root string, ttl time.Duration, logger *logrus.Logger) *Handler {
	return &Handler{
		root:   root,
		cache:  cache.New(ttl, 10*time.Second),
		logger: logger,
	}
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
	})
}

func (h *Handler) ServeConfig(w http.ResponseWriter, r *http.Request) {
	rel := path.Clean(strings.TrimPrefix(r.URL.Path, "/"))
	if rel == "." || rel == ".." || strings.HasPrefix(rel, "../") {
		h.handleError(w, fmt.Errorf("invalid path %q", r.URL.Path), http.StatusBadRequest)
		return
	}

	if cached, found := h.cache.Get(rel); found {
		data, ok := cached.([]byte)
		if !ok || data == nil {
			h.handleError(w, fmt.Errorf("%s not found (cached result)", rel), http.StatusNotFound)
			return
		}
		h.logger.Debugf("Serving %s from cache", rel)
		h.write(w, rel, data)
		return
	}

	data, err := os.ReadFile(filepath.Join(h.root, filepath.FromSlash(rel)))
	if err != nil {
		// Cache the miss to match the host's behavior for deleted files.
		h.cache.Set(rel, []byte(nil), cache.DefaultExpiration)
		h.handleError(w, fmt.Errorf("%s not found", rel), http.StatusNotFound)
		return
	}

	h.cache.Set(rel, data, cache.DefaultExpiration)
	h.write(w, rel, data)
}

func (h *Handler) write(w http.ResponseWriter, rel string, data []byte) {
	w.Header().Set("Content-Type", contentType(rel))
	w.Write(data)
}

func (h *Handler) handleError(w http.ResponseWriter, err error, status int) {
	h.logger.Debugf("Request failed: %v", err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error": err.Error(),
	})
}

func contentType(rel string) string {
	switch strings.ToLower(path.Ext(rel)) {
	case ".json":
		return "application/json"
	case ".svg":
		return "image/svg+xml"
	case ".png":
		return "image/png"
	default:
		return "application/octet-stream"
	}
}
