package main

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/BearBump/ParcelBox/internal/broker/messages"
	"github.com/BearBump/ParcelBox/internal/push"
)

type parcelEventConsumer interface {
	Consume(ctx context.Context, handler func(key, value []byte) error) error
}

// runParcelPush крутит HTTP-сервер с /ws и консьюмер кафки, который
// перекладывает события в хаб. Битые сообщения пропускаем: переехать через
// них важнее, чем доставить (push best-effort, источник истины — БД).
func runParcelPush(ctx context.Context, opts pushHTTPOpts, hub *push.Hub, consumer parcelEventConsumer, topic string) error {
	httpErr := make(chan error, 1)
	go func() {
		httpErr <- runPushHTTPServer(ctx, opts)
	}()

	consumerErr := make(chan error, 1)
	go func() {
		slog.Info("kafka consumer started", "topic", topic)
		consumerErr <- consumer.Consume(ctx, func(_key, value []byte) error {
			var ev messages.ParcelEvent
			if err := json.Unmarshal(value, &ev); err != nil {
				slog.Warn("skip malformed parcel event", "err", err)
				return nil
			}
			hub.Deliver(ev)
			return nil
		})
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-httpErr:
		return err
	case err := <-consumerErr:
		return err
	}
}
