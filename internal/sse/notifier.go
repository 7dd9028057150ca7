package sse

import (
	"time"

	"github.com/GTDGit/kilimo_api/internal/models"
)

// FeedNotifier is the interface feeds and settings use to emit events.
type FeedNotifier interface {
	NotifyFeedChanged(feed, state string, seq uint64, snapshot any)
	NotifySettingsChanged(settings models.CountySettings)
}

// HubNotifier implements FeedNotifier using the SSE Hub.
type HubNotifier struct {
	hub *Hub
}

// NewHubNotifier creates a notifier backed by the given Hub.
func NewHubNotifier(hub *Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

func (n *HubNotifier) NotifyFeedChanged(feed, state string, seq uint64, snapshot any) {
	if n.hub.Subscribers(feed) == 0 {
		return
	}
	n.hub.Broadcast(&FeedEvent{
		Event:     EventFeedUpdated,
		Feed:      feed,
		State:     state,
		Seq:       seq,
		Payload:   snapshot,
		Timestamp: time.Now(),
	})
}

func (n *HubNotifier) NotifySettingsChanged(settings models.CountySettings) {
	if n.hub.ClientCount() == 0 {
		return
	}
	n.hub.Broadcast(&FeedEvent{
		Event:     EventSettingsChanged,
		Payload:   settings,
		Timestamp: time.Now(),
	})
}
