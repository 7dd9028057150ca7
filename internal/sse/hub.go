package sse

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// EventType defines the SSE event name.
type EventType string

const (
	EventFeedUpdated     EventType = "feed.updated"
	EventSettingsChanged EventType = "settings.changed"
)

// FeedEvent is the payload broadcast to stream clients. Settings events
// carry no Feed and reach every client.
type FeedEvent struct {
	Event     EventType `json:"event"`
	Feed      string    `json:"feed,omitempty"`
	State     string    `json:"state,omitempty"`
	Seq       uint64    `json:"seq,omitempty"`
	Payload   any       `json:"payload"`
	Timestamp time.Time `json:"timestamp"`
}

// key identifies the slot an event occupies in a client's pending set.
func (e *FeedEvent) key() string {
	if e.Feed != "" {
		return e.Feed
	}
	return string(e.Event)
}

// Client is a connected stream client. It holds at most one undelivered
// event per feed: a newer snapshot replaces an older one that was never
// written, so a slow reader sees fewer but current states.
type Client struct {
	ID    string
	feeds map[string]bool // nil means every feed

	mu      sync.Mutex
	pending map[string][]byte
	order   []string
	closed  bool
	ready   chan struct{}
	done    chan struct{}
}

func newClient(id string, feeds []string) *Client {
	c := &Client{
		ID:      id,
		pending: make(map[string][]byte),
		ready:   make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	if len(feeds) > 0 {
		c.feeds = make(map[string]bool, len(feeds))
		for _, f := range feeds {
			c.feeds[f] = true
		}
	}
	return c
}

// Wants reports whether the client subscribed to feed. Events without a
// feed are always wanted.
func (c *Client) Wants(feed string) bool {
	return feed == "" || c.feeds == nil || c.feeds[feed]
}

// Ready is signalled when events are pending.
func (c *Client) Ready() <-chan struct{} { return c.ready }

// Done is closed when the client is unregistered.
func (c *Client) Done() <-chan struct{} { return c.done }

// Drain returns the pending events in arrival order of their slots and
// empties the set.
func (c *Client) Drain() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([][]byte, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, c.pending[k])
	}
	c.pending = make(map[string][]byte)
	c.order = c.order[:0]
	return out
}

// push stores data in slot key and reports whether it replaced an
// undelivered event.
func (c *Client) push(key string, data []byte) bool {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false
	}
	_, replaced := c.pending[key]
	if !replaced {
		c.order = append(c.order, key)
	}
	c.pending[key] = data
	c.mu.Unlock()

	select {
	case c.ready <- struct{}{}:
	default:
	}
	return replaced
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.done)
	}
}

// Hub manages stream clients and fans feed events out to their subscribers.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

// NewHub creates a new SSE hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
	}
}

// Register adds a client subscribed to feeds, or to every feed when none
// are given.
func (h *Hub) Register(clientID string, feeds ...string) *Client {
	h.mu.Lock()
	defer h.mu.Unlock()

	c := newClient(clientID, feeds)
	h.clients[clientID] = c
	log.Info().Str("client_id", clientID).Strs("feeds", feeds).Int("total_clients", len(h.clients)).Msg("SSE client connected")
	return c
}

// Unregister removes a client and closes its Done channel.
func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c, ok := h.clients[clientID]; ok {
		c.close()
		delete(h.clients, clientID)
		log.Info().Str("client_id", clientID).Int("total_clients", len(h.clients)).Msg("SSE client disconnected")
	}
}

// Broadcast queues an event for every client subscribed to its feed.
func (h *Hub) Broadcast(event *FeedEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("event", string(event.Event)).Str("feed", event.Feed).Msg("Failed to marshal SSE event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	key := event.key()
	for _, c := range h.clients {
		if !c.Wants(event.Feed) {
			continue
		}
		if c.push(key, data) {
			log.Debug().Str("client_id", c.ID).Str("slot", key).Msg("SSE client behind, replaced pending event")
		}
	}
}

// Subscribers returns how many clients would receive an event for feed.
func (h *Hub) Subscribers(feed string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := 0
	for _, c := range h.clients {
		if c.Wants(feed) {
			n++
		}
	}
	return n
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
