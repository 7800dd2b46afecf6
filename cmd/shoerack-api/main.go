// README: Entry point; loads config, wires stores and realtime transports, starts the HTTP server.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"shoerack/internal/config"
	httptransport "shoerack/internal/http"
	"shoerack/internal/infra"
	"shoerack/internal/modules/notification"
	"shoerack/internal/modules/order"
	"shoerack/internal/realtime"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		orderStore        order.Store
		notificationStore notification.Store
	)
	switch cfg.Storage {
	case "memory":
		orderStore = order.NewMemStore()
		notificationStore = notification.NewMemStore()
	default:
		dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			log.Fatal(err)
		}
		orderStore = order.NewPGStore(dbPool)
		notificationStore = notification.NewPGStore(dbPool)
	}

	registry := realtime.NewRegistry()
	ws := realtime.NewWSAdapter(registry, cfg.Realtime.SendBuffer)
	bus := realtime.NewBus(ws)
	if cfg.Redis.Enabled {
		redisClient := infra.NewRedis(cfg.Redis.Addr)
		bus.Register(realtime.NewRedisAdapter(redisClient, cfg.Realtime.RedisChannelPrefix))
	}

	notificationSvc := notification.NewService(notificationStore)
	orderSvc := order.NewService(orderStore, notificationSvc, bus)

	handler := httptransport.NewRouter(orderSvc, notificationSvc, ws)
	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler}

	go func() {
		<-ctx.Done()
		_ = server.Shutdown(context.Background())
	}()

	log.Printf("shoerack-api listening on %s (storage=%s)", cfg.HTTP.Addr, cfg.Storage)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
