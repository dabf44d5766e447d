package pcmwav

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const handlePrefix = "blob:"

// Handle is an ephemeral, process-local reference to an encoded container.
type Handle string

// ID returns the handle without its scheme prefix.
func (h Handle) ID() string {
	return strings.TrimPrefix(string(h), handlePrefix)
}

func (h Handle) String() string {
	return string(h)
}

// HandleFromID restores the Handle for an id returned by Handle.ID.
func HandleFromID(id string) Handle {
	return Handle(handlePrefix + id)
}

type entry struct {
	data    []byte
	created time.Time
}

// Registry is a handle table. Every handle stays registered, and its buffer
// reachable, until it is released. The zero value is an empty table ready to
// use. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[Handle]entry

	// OnChange, if set, is called with the table size after every change.
	// It runs under the registry lock and must not call back into it.
	OnChange func(live int)
}

// NewRegistry returns an empty handle table.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[Handle]entry)}
}

// DefaultRegistry backs the package-level handle functions.
var DefaultRegistry = NewRegistry()

// Register stores wav under a new handle. The registry takes ownership of the
// slice; callers must not modify it afterwards.
func (r *Registry) Register(wav []byte) (Handle, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate handle id: %w", err)
	}

	h := HandleFromID(id.String())

	r.mu.Lock()
	if r.entries == nil {
		r.entries = make(map[Handle]entry)
	}
	r.entries[h] = entry{data: wav, created: time.Now()}
	r.notify(len(r.entries))
	r.mu.Unlock()

	return h, nil
}

// Open returns the container registered under h. The returned slice is shared
// and must be treated as read-only.
func (r *Registry) Open(h Handle) ([]byte, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[h]

	return e.data, ok
}

// Reader returns a seekable view of the container registered under h.
func (r *Registry) Reader(h Handle) (*bytes.Reader, bool) {
	e, ok := r.lookup(h)
	if !ok {
		return nil, false
	}

	return bytes.NewReader(e.data), true
}

func (r *Registry) lookup(h Handle) (entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[h]

	return e, ok
}

// Release drops h from the table. Releasing an unknown or already released
// handle is a no-op; the result reports whether anything was removed.
func (r *Registry) Release(h Handle) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.entries[h]
	if ok {
		delete(r.entries, h)
		r.notify(len(r.entries))
	}

	return ok
}

// ReleaseAll drops every handle, for use when the owner of the table shuts down.
func (r *Registry) ReleaseAll() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.entries)
	if n > 0 {
		clear(r.entries)
		r.notify(0)
	}

	return n
}

// Len returns the number of live handles.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.entries)
}

func (r *Registry) notify(live int) {
	if r.OnChange != nil {
		r.OnChange(live)
	}
}
