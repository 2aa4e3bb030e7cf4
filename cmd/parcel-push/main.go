package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/BearBump/ParcelBox/config"
	"github.com/BearBump/ParcelBox/internal/broker/kafka"
	"github.com/BearBump/ParcelBox/internal/cache/rediscache"
	"github.com/BearBump/ParcelBox/internal/push"
)

func main() {
	cfg, err := config.LoadConfig(os.Getenv("configPath"))
	if err != nil {
		panic(fmt.Sprintf("ошибка парсинга конфига, %v", err))
	}

	httpAddr := cfg.ParcelBox.PushHTTPAddr
	if httpAddr == "" {
		httpAddr = ":8081"
	}
	topic := cfg.Kafka.ParcelEventsTopicName
	if topic == "" {
		topic = "parcel.events"
	}
	consumerGroup := cfg.ParcelBox.PushKafkaConsumerGroup
	if consumerGroup == "" {
		consumerGroup = "parcel-push"
	}

	hub := push.NewHub(push.NewRegistry())

	var limiter push.JoinLimiter
	joinLimit := int64(cfg.ParcelBox.PushJoinRateLimitPerMinute)
	if joinLimit > 0 {
		redisAddr := fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)
		limiter = rediscache.NewRateLimiter(redisAddr)
	}

	brokers := []string{fmt.Sprintf("%s:%d", cfg.Kafka.Host, cfg.Kafka.Port)}
	consumer := kafka.NewConsumer(brokers, topic, consumerGroup)
	defer func() { _ = consumer.Close() }()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	opts := pushHTTPOpts{
		httpAddr:           httpAddr,
		hub:                hub,
		limiter:            limiter,
		joinLimitPerMinute: joinLimit,
	}
	if err := runParcelPush(ctx, opts, hub, consumer, topic); err != nil && err != context.Canceled {
		panic(err)
	}
}
