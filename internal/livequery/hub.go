package livequery

import (
	"errors"
	"strings"
	"sync"
	"time"
)

const (
	DefaultBufferSize       = 20
	DefaultSubscriberBuffer = 16
)

var (
	ErrHubUnavailable   = errors.New("hub_unavailable")
	ErrInvalidStoreName = errors.New("invalid_store_name")
)

// Change announces that a store committed a new version. Subscribers re-run
// their query when the version is newer than the one they rendered.
type Change struct {
	Store     string    `json:"store"`
	Version   uint64    `json:"version"`
	Size      int       `json:"size"`
	ChangedAt time.Time `json:"changed_at"`
}

type Hub struct {
	mu               sync.RWMutex
	streams          map[string]*stream
	latest           map[string]Change
	bufferSize       int
	subscriberBuffer int
	now              func() time.Time
}

type stream struct {
	mu     sync.Mutex
	buffer []Change
	subs   map[uint64]chan Change
	nextID uint64
}

type Subscription struct {
	hub   *Hub
	store string
	id    uint64
	ch    chan Change
	once  sync.Once
}

func NewHub() *Hub {
	return &Hub{
		streams:          make(map[string]*stream),
		latest:           make(map[string]Change),
		bufferSize:       DefaultBufferSize,
		subscriberBuffer: DefaultSubscriberBuffer,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

// StoreChanged implements entitystore.Observer.
func (h *Hub) StoreChanged(name string, version uint64, size int) {
	if h == nil {
		return
	}
	h.Publish(Change{Store: name, Version: version, Size: size, ChangedAt: h.now()})
}

// Publish records the change as the latest for its store and fans it out to
// subscribers without blocking. A slow subscriber misses intermediate
// changes but the next delivered one always carries a newer version.
func (h *Hub) Publish(change Change) {
	if h == nil {
		return
	}
	name := strings.TrimSpace(change.Store)
	if name == "" {
		return
	}
	change.Store = name

	h.mu.Lock()
	if prev, ok := h.latest[name]; !ok || prev.Version < change.Version {
		h.latest[name] = change
	}
	stream := h.streams[name]
	h.mu.Unlock()
	if stream == nil {
		return
	}

	stream.mu.Lock()
	stream.buffer = append(stream.buffer, change)
	if len(stream.buffer) > h.bufferSize {
		stream.buffer = stream.buffer[len(stream.buffer)-h.bufferSize:]
	}
	subs := make([]chan Change, 0, len(stream.subs))
	for _, ch := range stream.subs {
		subs = append(subs, ch)
	}
	stream.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- change:
		default:
		}
	}
}

// Subscribe registers interest in a store and returns the buffered recent
// changes so a late subscriber can catch up.
func (h *Hub) Subscribe(storeName string) (*Subscription, []Change, error) {
	if h == nil {
		return nil, nil, ErrHubUnavailable
	}
	name := strings.TrimSpace(storeName)
	if name == "" {
		return nil, nil, ErrInvalidStoreName
	}

	ch := make(chan Change, h.subscriberBuffer)

	// registered under h.mu so a concurrent unsubscribe cannot orphan the
	// stream between lookup and insert
	h.mu.Lock()
	st := h.streams[name]
	if st == nil {
		st = &stream{subs: make(map[uint64]chan Change)}
		h.streams[name] = st
	}
	st.mu.Lock()
	id := st.nextID
	st.nextID++
	st.subs[id] = ch
	buffer := append([]Change(nil), st.buffer...)
	st.mu.Unlock()
	h.mu.Unlock()

	return &Subscription{
		hub:   h,
		store: name,
		id:    id,
		ch:    ch,
	}, buffer, nil
}

// Latest returns the newest known change of every store that changed at
// least once.
func (h *Hub) Latest() map[string]Change {
	if h == nil {
		return nil
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make(map[string]Change, len(h.latest))
	for k, v := range h.latest {
		out[k] = v
	}
	return out
}

func (h *Hub) unsubscribe(name string, id uint64) {
	if h == nil {
		return
	}

	h.mu.RLock()
	stream := h.streams[name]
	h.mu.RUnlock()
	if stream == nil {
		return
	}

	stream.mu.Lock()
	delete(stream.subs, id)
	remaining := len(stream.subs)
	stream.mu.Unlock()
	if remaining != 0 {
		return
	}

	h.mu.Lock()
	current := h.streams[name]
	if current != stream {
		h.mu.Unlock()
		return
	}
	stream.mu.Lock()
	empty := len(stream.subs) == 0
	stream.mu.Unlock()
	if empty {
		delete(h.streams, name)
	}
	h.mu.Unlock()
}

func (s *Subscription) Changes() <-chan Change {
	if s == nil {
		return nil
	}
	return s.ch
}

func (s *Subscription) Close() {
	if s == nil || s.hub == nil {
		return
	}
	s.once.Do(func() {
		s.hub.unsubscribe(s.store, s.id)
	})
}
