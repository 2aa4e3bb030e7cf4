package cache

import (
	"context"
	"time"
)

// BytesCache — контракт внешнего кэша. Значения непрозрачны (сериализованные
// снапшоты), ключи строковые. ok=false означает отсутствие ключа, не ошибку.
type BytesCache interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
