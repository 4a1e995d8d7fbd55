package service

import (
	"sync"

	"github.com/google/uuid"
)

// Artifact is one encoded branded image, produced for a single design and
// option set. Ephemeral: it lives for the duration of a preview or export.
type Artifact struct {
	DesignID string
	Filename string
	Data     []byte // JPEG bytes
}

// PreviewStore holds the bytes behind revocable preview references.
// Publishing returns a handle whose URL can be served to the UI; releasing
// the handle removes the bytes. Exactly one handle per artifact.
type PreviewStore struct {
	mu      sync.Mutex
	entries map[string][]byte
}

// NewPreviewStore creates an empty PreviewStore
func NewPreviewStore() *PreviewStore {
	return &PreviewStore{entries: make(map[string][]byte)}
}

// Publish stores the artifact's bytes under a fresh token
func (s *PreviewStore) Publish(a *Artifact) *PreviewHandle {
	token := uuid.New().String()
	s.mu.Lock()
	s.entries[token] = a.Data
	s.mu.Unlock()
	return &PreviewHandle{store: s, token: token}
}

// Get returns the bytes for a live token
func (s *PreviewStore) Get(token string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.entries[token]
	return data, ok
}

// Len reports the number of live previews
func (s *PreviewStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// PreviewHandle is the owned reference to one published preview.
// Release is safe to call more than once; only the first call frees.
type PreviewHandle struct {
	store *PreviewStore
	token string
	once  sync.Once
}

// Token returns the preview token for building the serving URL
func (h *PreviewHandle) Token() string {
	return h.token
}

// Release removes the preview bytes from the store
func (h *PreviewHandle) Release() {
	h.once.Do(func() {
		h.store.mu.Lock()
		delete(h.store.entries, h.token)
		h.store.mu.Unlock()
	})
}
