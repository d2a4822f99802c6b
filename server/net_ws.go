package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/alkief/pacmen/protocol"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 25 * time.Second
	readLimit  = 1 << 16

	// DefaultSendQueue 每个连接的发送队列长度
	DefaultSendQueue = 64
)

// ClientConn 负责发送（写）数据到客户端的轻量包装
type ClientConn struct {
	ws   *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

func NewClientConn(ws *websocket.Conn, queue int) *ClientConn {
	if queue <= 0 {
		queue = DefaultSendQueue
	}
	return &ClientConn{
		ws:   ws,
		send: make(chan []byte, queue),
		done: make(chan struct{}),
	}
}

// Enqueue 将要发送的消息压入队列（非阻塞，满则丢弃）
func (c *ClientConn) Enqueue(b []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- b:
		return true
	default:
		return false
	}
}

// Close 关闭底层连接；可重复调用
func (c *ClientConn) Close() {
	c.once.Do(func() {
		close(c.done)
		_ = c.ws.Close()
	})
}

// writePump 独立协程，负责从 send 队列写出到 WS，并定期发送 ping
func (c *ClientConn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	defer c.Close()
	for {
		select {
		case <-c.done:
			return
		case msg := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump 读取客户端消息，校验后中继给同房间其他成员
func (c *ClientConn) readPump(client *Client) {
	room := client.Room
	defer c.Close()
	c.ws.SetReadLimit(readLimit)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, payload, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				Log.Warnw("read failed", "client", client.ID, "err", err)
			}
			return
		}
		env, err := protocol.DecodeEnvelope(payload)
		if err != nil {
			room.metrics.IncRejected()
			continue
		}
		if !protocol.Relayed(env.T) {
			room.metrics.IncRejected()
			continue
		}
		if err := protocol.Validate(env); err != nil {
			room.metrics.IncRejected()
			Log.Debugw("message rejected", "client", client.ID, "type", env.T, "err", err)
			continue
		}
		env.From = client.ID
		b, err := json.Marshal(env)
		if err != nil {
			continue
		}
		room.Relay(client, b)
		room.metrics.IncRelayed()
	}
}

// Hub 把 WebSocket 连接接入房间登记表
type Hub struct {
	reg       *Registry
	sendQueue atomic.Int64
	upgrader  websocket.Upgrader
}

func NewHub(reg *Registry) *Hub {
	h := &Hub{
		reg: reg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// 演示环境：允许所有来源（生产环境需严格限制）
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	h.sendQueue.Store(DefaultSendQueue)
	return h
}

func (h *Hub) Registry() *Registry { return h.reg }

// SendQueue 新连接使用的发送队列长度
func (h *Hub) SendQueue() int { return int(h.sendQueue.Load()) }

func (h *Hub) SetSendQueue(n int) {
	if n > 0 {
		h.sendQueue.Store(int64(n))
	}
}

// HandleWS WebSocket 接入：分配 id 与房间，发送 welcome 并通知其他成员
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		Log.Warnw("upgrade failed", "err", err)
		return
	}

	conn := NewClientConn(ws, h.SendQueue())
	client := NewClient(uuid.NewString(), conn)
	room, err := h.reg.Join(client)
	if err != nil {
		Log.Errorw("join failed", "client", client.ID, "err", err)
		conn.Close()
		return
	}

	peers := make([]string, 0, room.Capacity())
	for _, c := range room.Clients() {
		if c != client {
			peers = append(peers, c.ID)
		}
	}
	if b, err := protocol.Encode(protocol.MsgWelcome, protocol.Welcome{ID: client.ID, Room: room.ID, Peers: peers}); err == nil {
		conn.Enqueue(b)
	}
	if b, err := protocol.EncodeFrom(protocol.MsgPeerJoined, client.ID, protocol.Peer{ID: client.ID}); err == nil {
		room.Relay(client, b)
	}
	Log.Infow("client joined", "client", client.ID, "room", room.ID, "members", room.Len())

	go conn.writePump()
	go func() {
		conn.readPump(client)
		h.leave(client)
	}()
}

// leave 断开回调：移出房间并通知其他成员移除该角色
func (h *Hub) leave(client *Client) {
	room := client.Room
	if room == nil || !room.RemoveClient(client) {
		return
	}
	if b, err := protocol.EncodeFrom(protocol.MsgPeerLeft, client.ID, protocol.Peer{ID: client.ID}); err == nil {
		room.Broadcast(b)
	}
	Log.Infow("client left", "client", client.ID, "room", room.ID, "members", room.Len())
}
