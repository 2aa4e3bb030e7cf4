package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BearBump/ParcelBox/config"
	"github.com/BearBump/ParcelBox/internal/broker/kafka"
	"github.com/BearBump/ParcelBox/internal/cache/rediscache"
	"github.com/BearBump/ParcelBox/internal/services/parcels"
	"github.com/BearBump/ParcelBox/internal/storage/pgparcel"
)

type parcelAPIApp struct {
	ctx     context.Context
	cancel  context.CancelFunc
	opts    parcelAPIOpts
	svc     *parcels.Service
	closeDB func()
}

func mustBootstrapParcelAPI() *parcelAPIApp {
	cfgPath := os.Getenv("configPath")
	if cfgPath == "" {
		panic("configPath env var is required")
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		panic(fmt.Sprintf("ошибка парсинга конфига, %v", err))
	}

	httpAddr := cfg.ParcelBox.HTTPAddr
	if httpAddr == "" {
		httpAddr = ":8080"
	}
	topic := cfg.Kafka.ParcelEventsTopicName
	if topic == "" {
		topic = "parcel.events"
	}

	parcelTTL := time.Duration(cfg.ParcelBox.ParcelTTLSeconds) * time.Second
	if parcelTTL <= 0 {
		parcelTTL = 10 * time.Minute
	}

	sslMode := cfg.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	connString := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Database.Username, cfg.Database.Password, cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName, sslMode)
	st := mustOpenPostgresWithRetry(connString, 60*time.Second)

	redisAddr := fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)
	rc := rediscache.New(redisAddr)

	brokers := []string{fmt.Sprintf("%s:%d", cfg.Kafka.Host, cfg.Kafka.Port)}
	notifier := kafka.NewNotifier(kafka.NewProducer(brokers), topic)

	svc := parcels.New(st, rc, notifier, parcelTTL)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	return &parcelAPIApp{
		ctx:    ctx,
		cancel: cancel,
		opts: parcelAPIOpts{
			httpAddr: httpAddr,
		},
		svc:     svc,
		closeDB: st.Close,
	}
}

func mustOpenPostgresWithRetry(connString string, wait time.Duration) *pgparcel.Storage {
	deadline := time.Now().Add(wait)
	var lastErr error
	for time.Now().Before(deadline) {
		st, err := pgparcel.New(connString)
		if err == nil {
			return st
		}
		lastErr = err
		time.Sleep(1 * time.Second)
	}
	panic(fmt.Sprintf("postgres is not ready after %s: %v", wait, lastErr))
}

func (a *parcelAPIApp) Close() {
	if a.cancel != nil {
		a.cancel()
	}
	if a.closeDB != nil {
		a.closeDB()
	}
}

func (a *parcelAPIApp) Run() error {
	return runParcelAPI(a.ctx, a.opts, a.svc)
}
