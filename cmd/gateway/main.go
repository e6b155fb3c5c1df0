package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/voltshop/backend/config"
	"github.com/voltshop/backend/internal/container"
	"github.com/voltshop/backend/internal/gateway"
	"github.com/voltshop/backend/pkg/helpers"
	"github.com/voltshop/backend/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger := logging.New("gateway", cfg.Env)

	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer func() { _ = rdb.Close() }()

	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		esClient, err := logging.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			logger.WithError(err).Warn("elasticsearch unavailable, audit logging disabled")
		} else {
			container.SetES(esClient)
		}
	}

	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetRedis(rdb)

	proxy, err := gateway.NewProxy(cfg.Routes(), logger)
	if err != nil {
		log.Fatalf("invalid gateway routes: %v", err)
	}

	engine := gateway.NewEngine(cfg, proxy)

	srv := &http.Server{Addr: ":" + cfg.GatewayPort, Handler: engine}
	go func() {
		logger.Infof("gateway starting on :%s", cfg.GatewayPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(http.ErrServerClosed, err) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down gateway")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Fatalf("gateway forced to shutdown: %v", err)
	}
	logger.Info("gateway exited properly")
}
