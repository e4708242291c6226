package web

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"cricket-hub/logger"
	"cricket-hub/pkg/models"
)

// WSMessage WebSocket消息结构
type WSMessage struct {
	Type   string               `json:"type"`
	Status models.StatusFilter  `json:"status,omitempty"`
	Board  *models.Board        `json:"board,omitempty"`
	Event  *models.RefreshEvent `json:"event,omitempty"`
}

// Client WebSocket客户端
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	mu     sync.RWMutex
	status models.StatusFilter // 订阅的状态过滤器，空表示全部
}

// Hub WebSocket Hub
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan *WSMessage
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
}

// NewHub 创建新的Hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan *WSMessage, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run 运行Hub，直到 ctx 结束
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			n := len(h.clients)
			h.mu.Unlock()
			logger.Debugf("[WebSocket] Client registered. Total clients: %d", n)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			n := len(h.clients)
			h.mu.Unlock()
			logger.Debugf("[WebSocket] Client unregistered. Total clients: %d", n)

		case message := <-h.broadcast:
			h.deliver(message)
		}
	}
}

// deliver 发送给订阅了该状态的客户端，发送缓冲已满的客户端被断开
func (h *Hub) deliver(message *WSMessage) {
	data, err := json.Marshal(message)
	if err != nil {
		logger.Errorf("[WebSocket] ❌ Failed to marshal message: %v", err)
		return
	}

	var slow []*Client
	h.mu.RLock()
	for client := range h.clients {
		if !client.shouldReceive(message) {
			continue
		}
		select {
		case client.send <- data:
		default:
			slow = append(slow, client)
		}
	}
	h.mu.RUnlock()

	if len(slow) == 0 {
		return
	}
	h.mu.Lock()
	for _, client := range slow {
		if _, ok := h.clients[client]; ok {
			delete(h.clients, client)
			close(client.send)
		}
	}
	h.mu.Unlock()
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Name implements services.RefreshSink
func (h *Hub) Name() string { return "websocket" }

// OnRefresh queues the board for every subscribed client. A full queue drops
// the board rather than stalling the refresh. Series-filtered boards only
// answer the request that asked for them.
func (h *Hub) OnRefresh(_ context.Context, board *models.Board, event models.RefreshEvent) error {
	if board.SeriesFilter != "" {
		return nil
	}
	msg := &WSMessage{Type: "board", Status: board.Status, Board: board, Event: &event}
	select {
	case h.broadcast <- msg:
	default:
		logger.Errorf("[WebSocket] ❌ Broadcast queue full, dropping %s board", board.Status)
	}
	return nil
}

// Subscribe attaches a connection to the hub and starts its pumps.
func (h *Hub) Subscribe(conn *websocket.Conn) {
	client := &Client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, 16),
	}
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// shouldReceive 检查客户端是否应该接收消息
func (c *Client) shouldReceive(message *WSMessage) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status == "" || c.status == message.Status
}

// readPump 读取客户端消息
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Errorf("[WebSocket] ❌ Read error: %v", err)
			}
			return
		}

		c.handleMessage(message)
	}
}

// writePump 向客户端写入消息
func (c *Client) writePump() {
	defer c.conn.Close()

	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// clientMessage 客户端发来的消息
type clientMessage struct {
	Type   string `json:"type"`
	Status string `json:"status"`
}

// handleMessage 处理客户端发送的消息
func (c *Client) handleMessage(message []byte) {
	var msg clientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		logger.Debugf("[WebSocket] Ignoring malformed client message: %v", err)
		return
	}

	switch msg.Type {
	case "subscribe":
		status, ok := models.ParseStatusFilter(msg.Status)
		if !ok {
			logger.Debugf("[WebSocket] Ignoring subscribe to unknown status %q", msg.Status)
			return
		}
		c.mu.Lock()
		c.status = status
		c.mu.Unlock()
		logger.Debugf("[WebSocket] Client subscribed to %s", status)

	case "unsubscribe":
		c.mu.Lock()
		c.status = ""
		c.mu.Unlock()
	}
}
