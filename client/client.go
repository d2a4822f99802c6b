package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/alkief/pacmen/game"
	"github.com/alkief/pacmen/protocol"
)

const (
	writeWait        = 5 * time.Second
	welcomeWait      = 10 * time.Second
	defaultHeartbeat = 250 * time.Millisecond
	sendQueue        = 64
)

// Options 无头参与者的配置
type Options struct {
	URL       string
	Config    game.Config // 零值时使用 game.DefaultConfig()
	Grid      *game.GridMap
	Intent    game.IntentSource
	Logger    *zap.Logger
	Heartbeat time.Duration // 定期广播完整状态的间隔
}

// Client 连接中继服务的参与者：本地模拟 + 与同房间成员互相同步状态
type Client struct {
	ID   string
	Room string

	conn      *websocket.Conn
	engine    *game.Engine
	session   *game.Session
	send      chan []byte
	heartbeat time.Duration
	log       *zap.Logger

	mu      sync.Mutex
	lastDir game.Direction
	peers   map[string]struct{}
}

// Dial 建立连接并等待 welcome，随后以分配到的 id 创建本地引擎
func Dial(ctx context.Context, opts Options) (*Client, error) {
	if opts.Grid == nil {
		return nil, errors.New("client: grid map required")
	}
	cfg := opts.Config
	if cfg.TileSize <= 0 {
		cfg = game.DefaultConfig()
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, opts.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("client: dial %s: %w", opts.URL, err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(welcomeWait))
	_, b, err := conn.ReadMessage()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("client: read welcome: %w", err)
	}
	_ = conn.SetReadDeadline(time.Time{})
	env, err := protocol.DecodeEnvelope(b)
	if err != nil {
		conn.Close()
		return nil, err
	}
	if env.T != protocol.MsgWelcome {
		conn.Close()
		return nil, fmt.Errorf("client: expected welcome, got %q", env.T)
	}
	w, err := protocol.DecodePayload[protocol.Welcome](env)
	if err != nil {
		conn.Close()
		return nil, err
	}

	c := &Client{
		ID:        w.ID,
		Room:      w.Room,
		conn:      conn,
		send:      make(chan []byte, sendQueue),
		heartbeat: opts.Heartbeat,
		log:       log.With(zap.String("self", w.ID)),
		peers:     make(map[string]struct{}),
	}
	if c.heartbeat <= 0 {
		c.heartbeat = defaultHeartbeat
	}
	for _, p := range w.Peers {
		c.peers[p] = struct{}{}
	}

	bus := game.NewBus(0)
	c.engine = game.NewEngine(cfg, opts.Grid, c.ID, bus, c.log)
	c.session = game.NewSession(c.engine, opts.Intent, c.log)
	bus.On(game.EventDirectionChanged, c.onDirection).
		On(game.EventItemConsumed, c.forward(protocol.MsgItemConsumed)).
		On(game.EventActorEliminated, c.forward(protocol.MsgActorEliminated))

	c.log.Info("joined room", zap.String("room", c.Room), zap.Int("peers", len(w.Peers)))
	return c, nil
}

// Session 本地模拟会话
func (c *Client) Session() *game.Session { return c.session }

// Peers 当前已知的同房间成员
func (c *Client) Peers() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.peers))
	for id := range c.peers {
		out = append(out, id)
	}
	return out
}

// onDirection 在模拟线程内执行，只在意图变化时上报
func (c *Client) onDirection(ev game.Event) {
	d := ev.(game.DirectionChanged).Direction
	c.mu.Lock()
	changed := d != c.lastDir
	c.lastDir = d
	c.mu.Unlock()
	if !changed {
		return
	}
	self := c.engine.Self()
	st := self.State()
	st.Direction = d
	c.publish(protocol.MsgState, st)
}

func (c *Client) forward(t string) game.Listener {
	return func(ev game.Event) {
		c.publish(t, ev)
	}
}

func (c *Client) publish(t string, payload any) {
	b, err := protocol.Encode(t, payload)
	if err != nil {
		c.log.Warn("encode failed", zap.String("type", t), zap.Error(err))
		return
	}
	select {
	case c.send <- b:
	default:
		c.log.Debug("send queue full, message dropped", zap.String("type", t))
	}
}

// Run 启动模拟、心跳与收发循环，直到 ctx 结束或连接断开
func (c *Client) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		<-ctx.Done()
		_ = c.conn.Close()
	}()
	go c.writeLoop(ctx)
	go func() { _ = c.session.Run(ctx) }()
	go c.heartbeatLoop(ctx)

	err := c.readLoop(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func (c *Client) writeLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case b := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
				c.log.Warn("write failed", zap.Error(err))
				return
			}
		}
	}
}

// heartbeatLoop 定期上报本地角色的完整状态，供其他成员对齐位置
func (c *Client) heartbeatLoop(ctx context.Context) {
	ticker := time.NewTicker(c.heartbeat)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			var st game.State
			if err := c.session.Query(ctx, func(e *game.Engine) { st = e.Self().State() }); err != nil {
				return
			}
			c.publish(protocol.MsgState, st)
		}
	}
}

func (c *Client) readLoop(ctx context.Context) error {
	for {
		_, b, err := c.conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("client: read: %w", err)
		}
		env, err := protocol.DecodeEnvelope(b)
		if err != nil {
			c.log.Debug("bad frame", zap.Error(err))
			continue
		}
		c.handle(ctx, env)
	}
}

func (c *Client) handle(ctx context.Context, env protocol.Envelope) {
	switch env.T {
	case protocol.MsgState:
		st, err := protocol.DecodePayload[protocol.State](env)
		if err != nil {
			return
		}
		if st.ID == "" {
			st.ID = env.From
		}
		if st.ID == "" || st.ID == c.ID {
			return
		}
		c.session.Submit(st)
	case protocol.MsgItemConsumed:
		ev, err := protocol.DecodePayload[protocol.ItemConsumed](env)
		if err != nil {
			return
		}
		c.session.ItemEaten(env.From, ev.X, ev.Y, ev.Score)
	case protocol.MsgActorEliminated:
		ev, err := protocol.DecodePayload[protocol.ActorEliminated](env)
		if err != nil {
			return
		}
		if ev.TargetID == c.ID {
			c.log.Info("eliminated", zap.String("by", ev.EliminatingID), zap.Int("score", ev.Score))
		}
	case protocol.MsgPeerJoined:
		p, err := protocol.DecodePayload[protocol.Peer](env)
		if err != nil {
			return
		}
		c.mu.Lock()
		c.peers[p.ID] = struct{}{}
		c.mu.Unlock()
	case protocol.MsgPeerLeft:
		p, err := protocol.DecodePayload[protocol.Peer](env)
		if err != nil {
			return
		}
		c.mu.Lock()
		delete(c.peers, p.ID)
		c.mu.Unlock()
		c.session.Leave(ctx, p.ID)
	}
}
