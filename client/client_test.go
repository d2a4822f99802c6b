package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alkief/pacmen/game"
	"github.com/alkief/pacmen/server"
)

func startRelay(t *testing.T) string {
	t.Helper()
	hub := server.NewHub(server.NewRegistry(server.DefaultCapacity))
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.HandleWS)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func options(t *testing.T, url string, intent game.IntentSource) Options {
	t.Helper()
	cfg := game.DefaultConfig()
	grid, err := game.DefaultMap(cfg)
	require.NoError(t, err)
	return Options{URL: url, Config: cfg, Grid: grid, Intent: intent, Heartbeat: 20 * time.Millisecond}
}

func actorIDs(ctx context.Context, c *Client) []string {
	var ids []string
	_ = c.Session().Query(ctx, func(e *game.Engine) {
		for _, a := range e.Actors() {
			ids = append(ids, a.ID)
		}
	})
	return ids
}

func TestClient_PeersSeeEachOther(t *testing.T) {
	url := startRelay(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	a, err := Dial(ctx, options(t, url, nil))
	require.NoError(t, err)
	b, err := Dial(ctx, options(t, url, NewWanderer(1, 10)))
	require.NoError(t, err)
	assert.Equal(t, a.Room, b.Room)
	assert.Equal(t, []string{a.ID}, b.Peers())

	actx, acancel := context.WithCancel(ctx)
	defer acancel()
	bctx, bcancel := context.WithCancel(ctx)
	go func() { _ = a.Run(actx) }()
	go func() { _ = b.Run(bctx) }()

	require.Eventually(t, func() bool {
		return assert.ObjectsAreEqual([]string{a.ID, b.ID}, actorIDs(ctx, a))
	}, 3*time.Second, 20*time.Millisecond, "a learns about b from its heartbeat")
	require.Eventually(t, func() bool {
		return len(actorIDs(ctx, b)) == 2
	}, 3*time.Second, 20*time.Millisecond)
	assert.Contains(t, a.Peers(), b.ID)

	bcancel()
	require.Eventually(t, func() bool {
		return assert.ObjectsAreEqual([]string{a.ID}, actorIDs(ctx, a))
	}, 3*time.Second, 20*time.Millisecond, "b is removed after it disconnects")
	assert.NotContains(t, a.Peers(), b.ID)
}

func TestDial_ZeroConfigUsesDefaults(t *testing.T) {
	url := startRelay(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cfg := game.DefaultConfig()
	grid, err := game.DefaultMap(cfg)
	require.NoError(t, err)
	c, err := Dial(ctx, Options{URL: url, Grid: grid})
	require.NoError(t, err)
	defer c.conn.Close()

	self := c.engine.Self()
	require.NotNil(t, self)
	assert.Equal(t, cfg.SpawnCell, self.Marker)
	assert.Equal(t, game.Vec{X: 14*16 + 8, Y: 17*16 + 8}, self.Position)
}

func TestDial_Errors(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := Dial(ctx, Options{URL: "ws://127.0.0.1:1/ws"})
	assert.Error(t, err, "grid is required")

	opts := options(t, "ws://127.0.0.1:1/ws", nil)
	_, err = Dial(ctx, opts)
	assert.Error(t, err)
}

func TestWanderer_HoldsDirection(t *testing.T) {
	w := NewWanderer(42, 3)
	first := w.Intent()
	assert.NotEqual(t, game.DirNone, first)
	assert.Equal(t, first, w.Intent())
	assert.Equal(t, first, w.Intent())

	same := NewWanderer(42, 3)
	for i := 0; i < 20; i++ {
		assert.Equal(t, same.Intent(), intentAt(t, 42, 3, i))
	}
}

// intentAt 同一种子下第 i 次调用的结果
func intentAt(t *testing.T, seed int64, hold, i int) game.Direction {
	t.Helper()
	w := NewWanderer(seed, hold)
	var d game.Direction
	for j := 0; j <= i; j++ {
		d = w.Intent()
	}
	return d
}
