package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fmaignacio/observatorio-tere/internal/config"
	"github.com/fmaignacio/observatorio-tere/internal/infrastructure"
	"github.com/fmaignacio/observatorio-tere/pkg/contracts/events"
)

// broadcastQueue bounds notifications waiting for the hub loop
const broadcastQueue = 16

// Hub maintains the set of active clients and broadcasts messages to them
type Hub struct {
	cfg     config.WebSocketConfig
	logger  *slog.Logger
	metrics *infrastructure.BusinessMetrics

	// Owned by Run
	clients map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte

	count        atomic.Int64
	messagesSent atomic.Int64

	mu      sync.Mutex
	running bool
	quit    chan struct{}
	done    chan struct{}
}

// HubOption configures a Hub
type HubOption func(*Hub)

// WithMetrics records the connected client gauge
func WithMetrics(m *infrastructure.BusinessMetrics) HubOption {
	return func(h *Hub) { h.metrics = m }
}

// NewHub creates a new Hub. Call Start before serving connections.
func NewHub(cfg config.WebSocketConfig, logger *slog.Logger, opts ...HubOption) *Hub {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	defaults := config.Default().WebSocket
	if cfg.PongWait <= 0 {
		cfg.PongWait = defaults.PongWait
	}
	if cfg.PingPeriod <= 0 || cfg.PingPeriod >= cfg.PongWait {
		cfg.PingPeriod = cfg.PongWait * 9 / 10
	}
	if cfg.WriteWait <= 0 {
		cfg.WriteWait = defaults.WriteWait
	}

	h := &Hub{
		cfg:        cfg,
		logger:     logger.With(slog.String("component", "websocket.hub")),
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, broadcastQueue),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Start runs the hub loop in its own goroutine. Calling it twice is a no-op.
func (h *Hub) Start() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.running {
		return
	}
	h.running = true
	go h.run()
}

// Stop ends the hub loop and closes every client. It waits for the loop to
// exit or ctx to expire.
func (h *Hub) Stop(ctx context.Context) error {
	h.mu.Lock()
	if !h.running {
		h.mu.Unlock()
		return nil
	}
	h.running = false
	close(h.quit)
	h.mu.Unlock()

	select {
	case <-h.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Hub) run() {
	defer close(h.done)
	for {
		select {
		case <-h.quit:
			for client := range h.clients {
				h.remove(client)
			}
			h.logger.Info("hub stopped")
			return

		case client := <-h.register:
			h.clients[client] = struct{}{}
			h.count.Add(1)
			if h.metrics != nil {
				h.metrics.WebSocketClients.Add(context.Background(), 1)
			}
			h.logger.Info("client registered",
				slog.String("client_id", client.id),
				slog.String("remote_addr", client.remoteAddr),
				slog.Int("total_clients", len(h.clients)),
			)
			h.greet(client)

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.remove(client)
				h.logger.Info("client unregistered",
					slog.String("client_id", client.id),
					slog.Duration("connection_duration", time.Since(client.connectedAt)),
					slog.Int("total_clients", len(h.clients)),
				)
			}

		case message := <-h.broadcast:
			sent := 0
			for client := range h.clients {
				select {
				case client.send <- message:
					sent++
				default:
					h.remove(client)
					h.logger.Warn("client send buffer full, disconnecting",
						slog.String("client_id", client.id))
				}
			}
			h.messagesSent.Add(int64(sent))
			h.logger.Debug("message broadcast",
				slog.Int("clients", sent),
				slog.Int("message_size", len(message)),
			)
		}
	}
}

// remove must only be called from run
func (h *Hub) remove(client *Client) {
	delete(h.clients, client)
	h.count.Add(-1)
	if h.metrics != nil {
		h.metrics.WebSocketClients.Add(context.Background(), -1)
	}
	close(client.send)
}

func (h *Hub) greet(client *Client) {
	msg := events.NewMessage(events.MessageTypeConnection, events.ConnectionData{
		Status:   "connected",
		ClientID: client.id,
		Protocol: events.ProtocolVersion,
	})
	msg.TraceID = client.traceID

	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("failed to marshal connection message", slog.String("error", err.Error()))
		return
	}
	select {
	case client.send <- data:
	default:
		h.logger.Warn("connection message dropped, client buffer full",
			slog.String("client_id", client.id))
	}
}

// Register hands a client to the hub loop. If the hub has stopped the
// client's send channel is closed so its write pump exits.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.quit:
		close(client.send)
	}
}

// Unregister removes a client. Safe to call after the hub has stopped.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.quit:
	}
}

// Broadcast queues a message for every connected client. It never blocks:
// when the queue is full the message is dropped and logged.
func (h *Hub) Broadcast(messageType string, data interface{}) {
	payload, err := json.Marshal(events.NewMessage(events.MessageType(messageType), data))
	if err != nil {
		h.logger.Error("failed to marshal broadcast",
			slog.String("message_type", messageType),
			slog.String("error", err.Error()))
		return
	}

	select {
	case <-h.quit:
		return
	default:
	}

	select {
	case h.broadcast <- payload:
	default:
		h.logger.Warn("broadcast queue full, message dropped",
			slog.String("message_type", messageType))
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	return int(h.count.Load())
}

// MessagesSent returns how many messages reached a client buffer
func (h *Hub) MessagesSent() int64 {
	return h.messagesSent.Load()
}
