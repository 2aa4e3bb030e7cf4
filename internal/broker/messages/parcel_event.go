package messages

import (
	"time"

	"github.com/BearBump/ParcelBox/internal/models"
)

// Имена событий, которые видят подписчики.
const (
	EventParcelCreated       = "ParcelCreated"
	EventParcelStatusUpdated = "ParcelStatusUpdated"
	EventParcelUpdated       = "ParcelUpdated"
)

// GroupAll — широковещательная группа, в которой состоит каждое соединение.
const GroupAll = "all"

// TrackingGroup возвращает имя группы для трек-номера ("tracking_" + номер).
func TrackingGroup(trackingNumber string) string {
	return "tracking_" + trackingNumber
}

type ParcelEvent struct {
	Event      string       `json:"event"`
	Group      string       `json:"group"`
	Parcel     ParcelPayload `json:"parcel"`
	OccurredAt time.Time    `json:"occurred_at"`
}

// ParcelPayload — снапшот посылки в том виде, в котором он уходит клиентам.
type ParcelPayload struct {
	ID             string    `json:"id"`
	TrackingNumber string    `json:"trackingNumber"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func NewParcelEvent(event, group string, p *models.Parcel) ParcelEvent {
	return ParcelEvent{
		Event:      event,
		Group:      group,
		OccurredAt: time.Now().UTC(),
		Parcel: ParcelPayload{
			ID:             p.ID,
			TrackingNumber: p.TrackingNumber,
			Status:         p.Status,
			CreatedAt:      p.CreatedAt,
			UpdatedAt:      p.UpdatedAt,
		},
	}
}
