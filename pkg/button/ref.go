package button

import (
	"sync"

	"github.com/google/uuid"
)

// Ref is a forwarded reference to the rendered root element. Server-side
// the handle is the root's id attribute: after a render the Ref reports
// which element was produced and how to find it in the document.
type Ref struct {
	mu       sync.RWMutex
	id       string
	tag      string
	mode     Mode
	resolved bool
}

// NewRef returns a Ref. An empty id makes the first render generate one.
func NewRef(id string) *Ref {
	return &Ref{id: id}
}

// ID returns the id of the root element.
func (r *Ref) ID() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.id
}

// Tag returns the root element's tag, or the wrapper name in wrapper mode.
func (r *Ref) Tag() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tag
}

// Mode returns the shape of the last render.
func (r *Ref) Mode() Mode {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.mode
}

// Resolved reports whether a render has completed with this Ref.
func (r *Ref) Resolved() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.resolved
}

// Selector returns a CSS selector matching the root element.
func (r *Ref) Selector() string {
	id := r.ID()
	if id == "" {
		return ""
	}
	return "#" + id
}

// idFor returns the id the root will carry without changing r. An explicit
// id attribute wins over the Ref's own id; with neither a new one is
// generated and kept only once the render succeeds.
func (r *Ref) idFor(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if id := r.ID(); id != "" {
		return id
	}
	return "btn-" + uuid.NewString()
}

func (r *Ref) resolve(id, tag string, mode Mode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.id = id
	r.tag = tag
	r.mode = mode
	r.resolved = true
}
