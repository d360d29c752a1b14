package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	kiterrors "github.com/conneroisu/buttonkit/internal/errors"
	"github.com/conneroisu/buttonkit/internal/stories"
	"github.com/conneroisu/buttonkit/internal/version"
	"github.com/conneroisu/buttonkit/pkg/button"
	"github.com/conneroisu/buttonkit/pkg/theme"
)

// Query parameter prefix for pass-through attributes on /render, e.g.
// /render?text=Go&attr.data-track=nav.
const attrPrefix = "attr."

// ErrCodeInvalidQuery is returned for /render parameters that cannot be used.
const ErrCodeInvalidQuery = "ERR_INVALID_QUERY"

// Wrapper elements /render refuses: they run script, load documents or
// change how their content is parsed.
var blockedWrappers = map[string]bool{
	"script":   true,
	"style":    true,
	"iframe":   true,
	"frame":    true,
	"frameset": true,
	"object":   true,
	"embed":    true,
	"base":     true,
	"meta":     true,
	"link":     true,
	"template": true,
	"noscript": true,
	"svg":      true,
	"math":     true,
}

// blockedAttribute reports whether /render must refuse the attribute name.
// Event handlers and srcdoc would execute markup from the query string.
func blockedAttribute(name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.HasPrefix(name, "on") || name == "srcdoc"
}

func invalidQuery(key, message string) error {
	return kiterrors.NewValidationError(ErrCodeInvalidQuery, "query parameter "+key+" "+message).
		WithComponent("server")
}

// Response headers describing the rendered root on /render.
const (
	HeaderMode = "X-Button-Mode"
	HeaderTag  = "X-Button-Tag"
	HeaderID   = "X-Button-Id"
)

func (s *PreviewServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	page := galleryPage(s.store.Catalogue(), s.watcher != nil)
	if err := page.Render(r.Context(), &buf); err != nil {
		s.writeError(w, r, kiterrors.NewRenderError(kiterrors.ErrCodeRenderFailed, "rendering gallery", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *PreviewServer) handleRender(w http.ResponseWriter, r *http.Request) {
	story, err := storyFromQuery(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := story.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	props := story.Props()
	props.Ref = button.NewRef(r.URL.Query().Get("id"))

	var buf bytes.Buffer
	if err := button.Button(props).Render(r.Context(), &buf); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set(HeaderMode, props.Ref.Mode().String())
	w.Header().Set(HeaderTag, props.Ref.Tag())
	w.Header().Set(HeaderID, props.Ref.ID())
	_, _ = buf.WriteTo(w)
}

// storyFromQuery maps query parameters onto an ad-hoc story.
func storyFromQuery(r *http.Request) (stories.Story, error) {
	q := r.URL.Query()

	story := stories.Story{
		Name:        "render",
		Text:        q.Get("text"),
		Appearance:  q.Get("appearance"),
		Size:        q.Get("size"),
		LoadingText: q.Get("loading_text"),
		Wrapper:     q.Get("wrapper"),
	}

	flags := []struct {
		key string
		dst *bool
	}{
		{"loading", &story.Loading},
		{"link", &story.Link},
		{"disabled", &story.Disabled},
		{"unclickable", &story.Unclickable},
		{"icon", &story.Icon},
	}
	for _, f := range flags {
		v, err := queryBool(q.Get(f.key))
		if err != nil {
			return stories.Story{}, invalidQuery(f.key, "must be a boolean")
		}
		*f.dst = v
	}

	if blockedWrappers[strings.ToLower(story.Wrapper)] {
		return stories.Story{}, invalidQuery("wrapper", "names an element that is not allowed")
	}

	for key, values := range q {
		name, ok := strings.CutPrefix(key, attrPrefix)
		if !ok || len(values) == 0 {
			continue
		}
		if blockedAttribute(name) {
			return stories.Story{}, invalidQuery(key, "names an attribute that is not allowed")
		}
		if story.Attributes == nil {
			story.Attributes = make(map[string]string)
		}
		story.Attributes[name] = values[0]
	}
	if href := q.Get("href"); href != "" {
		if story.Attributes == nil {
			story.Attributes = make(map[string]string)
		}
		story.Attributes["href"] = href
	}

	return story, nil
}

func queryBool(v string) (bool, error) {
	if v == "" {
		return false, nil
	}
	return strconv.ParseBool(v)
}

func (s *PreviewServer) handleReloadScript(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = io.WriteString(w, reloadScript)
}

func (s *PreviewServer) handleStyles(w http.ResponseWriter, r *http.Request) {
	css, err := theme.Stylesheet(s.config.Theme)
	if err != nil {
		s.writeError(w, r, kiterrors.NewConfigError(kiterrors.ErrCodeConfigInvalid, "theme").WithCause(err))
		return
	}

	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write([]byte(css))
}

func (s *PreviewServer) handleStories(w http.ResponseWriter, r *http.Request) {
	if name := r.URL.Query().Get("name"); name != "" {
		story, ok := s.store.Get(name)
		if !ok {
			s.writeError(w, r, kiterrors.ErrNotFound("story", name).WithComponent("server"))
			return
		}
		s.writeJSON(w, r, http.StatusOK, story)
		return
	}

	cat := s.store.Catalogue()
	s.writeJSON(w, r, http.StatusOK, map[string]interface{}{
		"path":      cat.Path,
		"loaded_at": cat.LoadedAt,
		"count":     len(cat.Stories),
		"stories":   cat.Stories,
	})
}

// handleHealth returns the server health status for health checks.
func (s *PreviewServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	info := version.Get()
	s.writeJSON(w, r, http.StatusOK, map[string]interface{}{
		"status":     "healthy",
		"timestamp":  time.Now().UTC(),
		"uptime":     time.Since(s.startedAt).Round(time.Second).String(),
		"version":    info.Short(),
		"build_info": info,
		"checks": map[string]interface{}{
			"stories": map[string]interface{}{"status": "healthy", "count": s.store.Count(), "path": s.store.Path()},
			"watcher": map[string]interface{}{"status": "healthy", "enabled": s.watcher != nil},
			"clients": map[string]interface{}{"status": "healthy", "connected": s.ClientCount()},
		},
	})
}

func (s *PreviewServer) writeJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn(r.Context(), err, "Failed to encode response")
	}
}

// writeError logs err and answers with the status its category maps to.
func (s *PreviewServer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	s.errors.Handle(r.Context(), err)

	status := kiterrors.HTTPStatus(err)
	body := map[string]interface{}{
		"error":  err.Error(),
		"status": status,
	}
	if code := kiterrors.CodeOf(err); code != "" {
		body["code"] = code
	}
	s.writeJSON(w, r, status, body)
}
