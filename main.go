package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alkief/pacmen/server"
)

// pacmen 中继服务入口：把连接分配到房间，并在房间内转发参与者状态
func main() {
	var (
		addr     string
		logFile  string
		level    string
		capacity int
	)
	flag.StringVar(&addr, "addr", ":8080", "server listen address, e.g. :8080")
	flag.StringVar(&logFile, "log", "app.log", "log file path, empty for stderr")
	flag.StringVar(&level, "level", "debug", "log level: debug/info/warn/error")
	flag.IntVar(&capacity, "capacity", server.DefaultCapacity, "max participants per room")
	flag.Parse()

	if _, err := server.InitLogger(logFile, level); err != nil {
		panic(err)
	}
	defer server.SyncLogger()

	reg := server.GetRegistry()
	reg.SetCapacity(capacity)
	hub := server.NewHub(reg)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.HandleWS)
	mux.HandleFunc("/admin/config", hub.HandleAdminConfig)
	mux.HandleFunc("/metrics", hub.HandleMetrics)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		server.Log.Infof("pacmen relay listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			server.Log.Fatalf("listen: %v", err)
		}
	}()

	// 优雅退出（Ctrl+C）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	server.Log.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		server.Log.Errorf("shutdown: %v", err)
	}
}
