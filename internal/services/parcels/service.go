package parcels

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/BearBump/ParcelBox/internal/broker/messages"
	"github.com/BearBump/ParcelBox/internal/cache"
	"github.com/BearBump/ParcelBox/internal/models"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (*models.Parcel, error)
	GetByTrackingNumber(ctx context.Context, trackingNumber string) (*models.Parcel, error)
	Insert(ctx context.Context, p *models.Parcel) error
	Update(ctx context.Context, p *models.Parcel) error
	ListAll(ctx context.Context) ([]*models.Parcel, error)
}

type Notifier interface {
	PublishToGroup(ctx context.Context, group, event string, p *models.Parcel) error
	PublishToAll(ctx context.Context, event string, p *models.Parcel) error
}

type Service struct {
	repo      Repository
	cache     cache.BytesCache
	notifier  Notifier
	parcelTTL time.Duration
}

func New(repo Repository, c cache.BytesCache, n Notifier, parcelTTL time.Duration) *Service {
	return &Service{repo: repo, cache: c, notifier: n, parcelTTL: parcelTTL}
}

// GetByTrackingNumber — cache-aside: сначала кэш, на промахе БД + заполнение
// кэша. Отрицательные результаты не кэшируем. Ошибки кэша считаем промахом.
func (s *Service) GetByTrackingNumber(ctx context.Context, trackingNumber string) (*models.Parcel, error) {
	if trackingNumber == "" {
		return nil, errors.Wrap(models.ErrValidation, "trackingNumber is required")
	}

	key := parcelKey(trackingNumber)
	if s.cacheEnabled() {
		b, ok, err := s.cache.Get(ctx, key)
		if err == nil && ok {
			var p models.Parcel
			if json.Unmarshal(b, &p) == nil {
				slog.Info("parcel served from cache", "trackingNumber", trackingNumber)
				return &p, nil
			}
		}
	}

	p, err := s.repo.GetByTrackingNumber(ctx, trackingNumber)
	if err != nil {
		return nil, err
	}

	if s.cacheEnabled() {
		b, _ := json.Marshal(p)
		if err := s.cache.Set(ctx, key, b, s.parcelTTL); err != nil {
			slog.Warn("parcel cache set failed", "trackingNumber", trackingNumber, "err", err)
		}
	}
	return p, nil
}

// Create генерирует id и таймстемпы, пишет в БД, чистит кэш и рассылает
// ParcelCreated (all) + ParcelStatusUpdated (группа трек-номера) — именно в
// этом порядке. Нотификации после неудачной записи не уходят.
func (s *Service) Create(ctx context.Context, in models.ParcelCreateInput) (*models.Parcel, error) {
	if in.TrackingNumber == "" {
		return nil, errors.Wrap(models.ErrValidation, "trackingNumber is required")
	}
	if len(in.TrackingNumber) > models.MaxFieldLen {
		return nil, errors.Wrapf(models.ErrValidation, "trackingNumber is too long (max %d)", models.MaxFieldLen)
	}
	status := in.Status
	if status == "" {
		status = models.DefaultParcelStatus
	}
	if len(status) > models.MaxFieldLen {
		return nil, errors.Wrapf(models.ErrValidation, "status is too long (max %d)", models.MaxFieldLen)
	}

	now := time.Now().UTC()
	p := &models.Parcel{
		ID:             uuid.NewString(),
		TrackingNumber: in.TrackingNumber,
		Status:         status,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Insert(ctx, p); err != nil {
		return nil, err
	}

	// Записи в кэше быть не должно, но незавершённая прошлая запись могла
	// её оставить — чистим до нотификаций.
	s.invalidate(ctx, p.TrackingNumber)

	s.publishToAll(ctx, messages.EventParcelCreated, p)
	s.publishToGroup(ctx, messages.TrackingGroup(p.TrackingNumber), messages.EventParcelStatusUpdated, p)

	slog.Info("parcel created", "trackingNumber", p.TrackingNumber, "id", p.ID)
	return p, nil
}

// UpdateStatus читает авторитетное состояние из БД (не из кэша), обновляет
// status/updated_at, инвалидирует кэш и только потом шлёт нотификации.
func (s *Service) UpdateStatus(ctx context.Context, id, newStatus string) (*models.Parcel, error) {
	if newStatus == "" {
		return nil, errors.Wrap(models.ErrValidation, "status is required")
	}
	if len(newStatus) > models.MaxFieldLen {
		return nil, errors.Wrapf(models.ErrValidation, "status is too long (max %d)", models.MaxFieldLen)
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	p.Status = newStatus
	p.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	s.invalidate(ctx, p.TrackingNumber)

	s.publishToGroup(ctx, messages.TrackingGroup(p.TrackingNumber), messages.EventParcelStatusUpdated, p)
	s.publishToAll(ctx, messages.EventParcelUpdated, p)

	slog.Info("parcel status updated", "id", id, "status", newStatus)
	return p, nil
}

func (s *Service) GetAll(ctx context.Context) ([]*models.Parcel, error) {
	return s.repo.ListAll(ctx)
}

func (s *Service) cacheEnabled() bool {
	return s.cache != nil && s.parcelTTL > 0
}

func (s *Service) invalidate(ctx context.Context, trackingNumber string) {
	if !s.cacheEnabled() {
		return
	}
	if err := s.cache.Delete(ctx, parcelKey(trackingNumber)); err != nil {
		// Запись доживёт максимум до конца TTL.
		slog.Warn("parcel cache delete failed", "trackingNumber", trackingNumber, "err", err)
	}
}

// Нотификации best-effort: ошибки логируем и не отдаём вызывающему.
func (s *Service) publishToGroup(ctx context.Context, group, event string, p *models.Parcel) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.PublishToGroup(ctx, group, event, p); err != nil {
		slog.Error("publish to group failed", "group", group, "event", event, "err", err)
	}
}

func (s *Service) publishToAll(ctx context.Context, event string, p *models.Parcel) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.PublishToAll(ctx, event, p); err != nil {
		slog.Error("publish to all failed", "event", event, "err", err)
	}
}

func parcelKey(trackingNumber string) string {
	return "parcel:" + trackingNumber
}
