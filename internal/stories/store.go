package stories

import (
	"context"
	"reflect"
	"sync"
	"time"

	"github.com/conneroisu/buttonkit/internal/logging"
)

// EventType represents the type of story event.
type EventType int

const (
	EventTypeAdded EventType = iota
	EventTypeUpdated
	EventTypeRemoved
	// EventTypeFailed is sent when a reload fails; the previous catalogue
	// stays current.
	EventTypeFailed
)

func (t EventType) String() string {
	switch t {
	case EventTypeAdded:
		return "added"
	case EventTypeUpdated:
		return "updated"
	case EventTypeRemoved:
		return "removed"
	case EventTypeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Event describes one change to the catalogue held by a Store.
type Event struct {
	Type      EventType
	Story     Story
	Err       error
	Timestamp time.Time
}

// Store holds the current catalogue and notifies watchers when a reload
// changes it.
type Store struct {
	path     string
	logger   logging.Logger
	mutex    sync.RWMutex
	current  *Catalogue
	watchers []chan Event
}

// NewStore creates a store for the story file at path. Nothing is read
// until Reload is called.
func NewStore(path string, logger logging.Logger) *Store {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Store{
		path:     path,
		logger:   logger.WithComponent("stories"),
		current:  &Catalogue{Path: path},
		watchers: make([]chan Event, 0),
	}
}

// NewStaticStore wraps an already parsed catalogue. Reload on a static
// store is a no-op.
func NewStaticStore(c *Catalogue) *Store {
	s := NewStore("", nil)
	s.current = c
	return s
}

// Path returns the story file path.
func (s *Store) Path() string {
	return s.path
}

// Reload re-reads the story file. On failure the previous catalogue is
// kept and watchers receive an EventTypeFailed event.
func (s *Store) Reload(ctx context.Context) error {
	if s.path == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	timer := logging.StartOperation(s.logger, "reload_stories")
	next, err := Load(s.path)
	if err != nil {
		timer.EndWithError(ctx, err)
		s.mutex.Lock()
		s.notify(Event{Type: EventTypeFailed, Err: err, Timestamp: time.Now()})
		s.mutex.Unlock()
		return err
	}
	timer.End(ctx)

	s.mutex.Lock()
	defer s.mutex.Unlock()

	events := diff(s.current, next)
	s.current = next
	for _, e := range events {
		s.notify(e)
	}
	s.logger.Info(ctx, "Stories loaded", "path", s.path, "count", len(next.Stories), "changes", len(events))
	return nil
}

// Catalogue returns the current catalogue.
func (s *Store) Catalogue() *Catalogue {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.current
}

// Get retrieves a story by name.
func (s *Store) Get(name string) (Story, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.current.Find(name)
}

// All returns the stories in file order.
func (s *Store) All() []Story {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	out := make([]Story, len(s.current.Stories))
	copy(out, s.current.Stories)
	return out
}

// Count returns the number of stories.
func (s *Store) Count() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.current.Stories)
}

// Watch returns a channel that receives story events.
func (s *Store) Watch() <-chan Event {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	ch := make(chan Event, 100)
	s.watchers = append(s.watchers, ch)
	return ch
}

// UnWatch removes a watcher channel and closes it.
func (s *Store) UnWatch(ch <-chan Event) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for i, w := range s.watchers {
		if w == ch {
			close(w)
			s.watchers = append(s.watchers[:i], s.watchers[i+1:]...)
			return
		}
	}
}

// notify must be called with the write lock held.
func (s *Store) notify(event Event) {
	for _, w := range s.watchers {
		select {
		case w <- event:
		default:
			// Skip if channel is full
		}
	}
}

func diff(prev, next *Catalogue) []Event {
	now := time.Now()
	old := make(map[string]Story, len(prev.Stories))
	for _, st := range prev.Stories {
		old[st.Name] = st
	}

	var events []Event
	seen := make(map[string]bool, len(next.Stories))
	for _, st := range next.Stories {
		seen[st.Name] = true
		before, ok := old[st.Name]
		switch {
		case !ok:
			events = append(events, Event{Type: EventTypeAdded, Story: st, Timestamp: now})
		case !equal(before, st):
			events = append(events, Event{Type: EventTypeUpdated, Story: st, Timestamp: now})
		}
	}
	for _, st := range prev.Stories {
		if !seen[st.Name] {
			events = append(events, Event{Type: EventTypeRemoved, Story: st, Timestamp: now})
		}
	}
	return events
}

func equal(a, b Story) bool {
	if len(a.Attributes) != len(b.Attributes) {
		return false
	}
	for k, v := range a.Attributes {
		if bv, ok := b.Attributes[k]; !ok || bv != v {
			return false
		}
	}
	a.Attributes, b.Attributes = nil, nil
	return reflect.DeepEqual(a, b)
}
