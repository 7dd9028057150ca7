package handler

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/kilimo_api/internal/feed"
	"github.com/GTDGit/kilimo_api/internal/sse"
	"github.com/GTDGit/kilimo_api/internal/utils"
)

// SSEHandler streams feed updates as Server-Sent Events.
type SSEHandler struct {
	hub          *sse.Hub
	home         *feed.HomeFeed
	prices       *feed.PricesFeed
	pingInterval time.Duration
}

// NewSSEHandler creates a new SSEHandler.
func NewSSEHandler(hub *sse.Hub, home *feed.HomeFeed, prices *feed.PricesFeed) *SSEHandler {
	return &SSEHandler{hub: hub, home: home, prices: prices, pingInterval: 30 * time.Second}
}

// parseFeeds reads the optional comma-separated feeds query. An empty
// result subscribes to every feed.
func parseFeeds(raw string) ([]string, error) {
	var feeds []string
	for _, f := range strings.Split(raw, ",") {
		switch f = strings.TrimSpace(f); f {
		case "":
		case feed.HomeFeedName, feed.PricesFeedName:
			feeds = append(feeds, f)
		default:
			return nil, fmt.Errorf("unknown feed %q", f)
		}
	}
	return feeds, nil
}

// Stream handles GET /v1/stream?feeds=home,prices
// The current snapshots of the subscribed feeds are sent first so clients
// render without waiting for a poll.
func (h *SSEHandler) Stream(c *gin.Context) {
	feeds, err := parseFeeds(c.Query("feeds"))
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_CRITERIA", err.Error())
		return
	}

	clientID := "stream-" + uuid.New().String()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // Disable nginx buffering

	client := h.hub.Register(clientID, feeds...)
	defer h.hub.Unregister(clientID)

	c.SSEvent("connected", gin.H{
		"clientId":  clientID,
		"feeds":     feeds,
		"message":   "SSE connection established",
		"timestamp": time.Now().Format(time.RFC3339),
	})
	if client.Wants(feed.HomeFeedName) {
		c.SSEvent("snapshot", h.home.Snapshot())
	}
	if client.Wants(feed.PricesFeedName) {
		c.SSEvent("snapshot", h.prices.View())
	}
	c.Writer.Flush()

	log.Info().Str("client_id", clientID).Strs("feeds", feeds).Msg("Feed stream started")

	c.Stream(func(w io.Writer) bool {
		select {
		case <-client.Ready():
			for _, data := range client.Drain() {
				c.SSEvent("feed", string(data))
			}
			return true
		case <-client.Done():
			return false
		case <-time.After(h.pingInterval):
			c.SSEvent("ping", gin.H{"timestamp": time.Now().Format(time.RFC3339)})
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
