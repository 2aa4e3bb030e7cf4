package models

import "time"

// Статус свободной формы (1..50 символов), "Pending" по умолчанию.
const DefaultParcelStatus = "Pending"

// MaxFieldLen ограничивает tracking_number и status на уровне сервиса,
// чтобы не зависеть только от ограничений таблицы.
const MaxFieldLen = 50

type Parcel struct {
	ID             string
	TrackingNumber string
	Status         string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type ParcelCreateInput struct {
	TrackingNumber string
	Status         string
}
