package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/alkief/pacmen/client"
	"github.com/alkief/pacmen/game"
	"github.com/alkief/pacmen/server"
)

// pacbot 无头参与者：连接中继服务，随机游走并同步状态
func main() {
	var (
		url     string
		mapFile string
		logFile string
		level   string
		seed    int64
	)
	flag.StringVar(&url, "url", "ws://localhost:8080/ws", "relay websocket url")
	flag.StringVar(&mapFile, "map", "", "Tiled JSON map, empty for the built-in maze")
	flag.StringVar(&logFile, "log", "", "log file path, empty for stderr")
	flag.StringVar(&level, "level", "info", "log level: debug/info/warn/error")
	flag.Int64Var(&seed, "seed", time.Now().UnixNano(), "random walk seed")
	flag.Parse()

	logger, err := server.InitLogger(logFile, level)
	if err != nil {
		panic(err)
	}
	defer server.SyncLogger()

	cfg := game.DefaultConfig()
	grid, err := loadMap(mapFile, cfg)
	if err != nil {
		logger.Fatal("load map", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := client.Dial(ctx, client.Options{
		URL:    url,
		Config: cfg,
		Grid:   grid,
		Intent: client.NewWanderer(seed, cfg.TickRate/2),
		Logger: logger,
	})
	if err != nil {
		logger.Fatal("dial", zap.Error(err))
	}
	if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("client stopped", zap.Error(err))
	}
}

func loadMap(path string, cfg game.Config) (*game.GridMap, error) {
	if path == "" {
		return game.DefaultMap(cfg)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return game.LoadTiledJSON(f, "Pacman", cfg)
}
