// Billboard - Digital Signage Slideshow Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/billboard

package websocket

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/billboard/internal/catalog"
	"github.com/tomtom215/billboard/internal/config"
	"github.com/tomtom215/billboard/internal/logging"
	"github.com/tomtom215/billboard/internal/metrics"
)

// ShutdownReason identifies why the hub is shutting down.
type ShutdownReason string

const (
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

// Message types for WebSocket communication
const (
	MessageTypeMediaList   = "mediaList"
	MessageTypeMediaUpdate = "mediaUpdate"
	MessageTypePing        = "ping"
	MessageTypePong        = "pong"
)

// Message represents a WebSocket message. Media is only meaningful for
// mediaList and mediaUpdate.
type Message struct {
	Type  string              `json:"type"`
	Media []catalog.MediaItem `json:"media"`
}

// MediaListMessage is the greeting sent to a newly connected display.
func MediaListMessage(items []catalog.MediaItem) Message {
	if items == nil {
		items = []catalog.MediaItem{}
	}
	return Message{Type: MessageTypeMediaList, Media: items}
}

// Timing holds the heartbeat settings shared by all clients.
type Timing struct {
	WriteWait  time.Duration
	PongWait   time.Duration
	PingPeriod time.Duration
}

// DefaultTiming matches the configuration defaults.
func DefaultTiming() Timing {
	return Timing{
		WriteWait:  10 * time.Second,
		PongWait:   60 * time.Second,
		PingPeriod: 30 * time.Second,
	}
}

// TimingFromConfig converts the websocket configuration section.
func TimingFromConfig(cfg config.WebSocketConfig) Timing {
	return Timing{
		WriteWait:  cfg.WriteWait,
		PongWait:   cfg.PongWait,
		PingPeriod: cfg.PingInterval,
	}
}

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Message
	Register   chan *Client
	Unregister chan *Client
	mu         sync.RWMutex
	timing     Timing
	log        zerolog.Logger

	// done is closed when RunWithContext returns.
	done     chan struct{}
	doneOnce sync.Once
}

// NewHub creates a new Hub
func NewHub(timing Timing) *Hub {
	def := DefaultTiming()
	if timing.WriteWait <= 0 {
		timing.WriteWait = def.WriteWait
	}
	if timing.PongWait <= 0 {
		timing.PongWait = def.PongWait
	}
	if timing.PingPeriod <= 0 {
		timing.PingPeriod = def.PingPeriod
	}
	if timing.PingPeriod >= timing.PongWait {
		timing.PingPeriod = (timing.PongWait * 9) / 10
	}

	return &Hub{
		broadcast:  make(chan Message, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		timing:     timing,
		log:        logging.WithComponent("websocket-hub"),
		done:       make(chan struct{}),
	}
}

// RunWithContext runs the hub until ctx is canceled, then closes every
// client and returns ctx.Err().
//
// Lifecycle events are drained before broadcasts so a client registered
// just before a broadcast always receives it.
func (h *Hub) RunWithContext(ctx context.Context) error {
	defer h.doneOnce.Do(func() { close(h.done) })

	for {
		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		default:
		}

		select {
		case client := <-h.Register:
			h.addClient(client)
			continue
		case client := <-h.Unregister:
			h.removeClient(client)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		case client := <-h.Register:
			h.addClient(client)
		case client := <-h.Unregister:
			h.removeClient(client)
		case message := <-h.broadcast:
			h.broadcastToClients(message)
		}
	}
}

func (h *Hub) addClient(client *Client) {
	if client.greeting != nil {
		select {
		case client.send <- client.greeting():
		default:
		}
	}

	h.mu.Lock()
	h.clients[client] = true
	total := len(h.clients)
	h.mu.Unlock()

	metrics.WSConnections.Set(float64(total))
	h.log.Info().Uint64("client", client.id).Int("total_clients", total).Msg("websocket client connected")
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	total := len(h.clients)
	h.mu.Unlock()

	metrics.WSConnections.Set(float64(total))
	h.log.Info().Uint64("client", client.id).Int("total_clients", total).Msg("websocket client disconnected")
}

// logGracefulShutdown closes all clients and logs the shutdown. ctx.Err() is
// not logged as an error since cancellation is the normal path.
func (h *Hub) logGracefulShutdown(ctx context.Context) {
	clientCount := h.GetClientCount()
	h.closeAllClients()

	h.log.Info().
		Str("reason", string(getShutdownReason(ctx))).
		Int("clients_closed", clientCount).
		Msg("websocket hub stopped")
}

func getShutdownReason(ctx context.Context) ShutdownReason {
	if ctx.Err() == context.DeadlineExceeded {
		return ShutdownReasonContextDeadline
	}
	return ShutdownReasonContextCanceled
}

// sortedClients must be called with mu held.
func (h *Hub) sortedClients() []*Client {
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})
	return clients
}

// broadcastToClients sends a message to all connected clients in ID order.
// Clients whose queue is full are disconnected.
func (h *Hub) broadcastToClients(message Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var toRemove []*Client
	for _, client := range h.sortedClients() {
		select {
		case client.send <- message:
			metrics.WSMessagesSent.Inc()
		default:
			toRemove = append(toRemove, client)
		}
	}

	for _, client := range toRemove {
		close(client.send)
		delete(h.clients, client)
		metrics.WSErrors.WithLabelValues("slow_client").Inc()
		h.log.Warn().Uint64("client", client.id).Msg("dropping slow websocket client")
	}
	metrics.WSConnections.Set(float64(len(h.clients)))
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.sortedClients() {
		close(client.send)
		delete(h.clients, client)
	}
	metrics.WSConnections.Set(0)
}

// BroadcastMediaList implements catalog.Broadcaster. It never blocks: when
// the broadcast queue is full the update is dropped.
func (h *Hub) BroadcastMediaList(items []catalog.MediaItem) {
	message := Message{Type: MessageTypeMediaUpdate, Media: items}
	if message.Media == nil {
		message.Media = []catalog.MediaItem{}
	}

	select {
	case h.broadcast <- message:
		h.log.Debug().Int("items", len(items)).Int("clients", h.GetClientCount()).Msg("broadcast mediaUpdate")
	default:
		metrics.WSMessagesDropped.Inc()
		h.log.Warn().Msg("broadcast channel full, dropping mediaUpdate message")
	}
}

// Attach registers client with the running hub. greeting, if not nil, is
// built on the hub goroutine at registration and queued ahead of any
// broadcast the client receives. Attach reports false when the hub has shut
// down or ctx ends first.
func (h *Hub) Attach(ctx context.Context, client *Client, greeting func() Message) bool {
	client.greeting = greeting
	select {
	case h.Register <- client:
		return true
	case <-h.done:
		return false
	case <-ctx.Done():
		return false
	}
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
