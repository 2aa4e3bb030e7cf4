package kafka

import (
	"context"
	"encoding/json"

	"github.com/BearBump/ParcelBox/internal/broker/messages"
	"github.com/BearBump/ParcelBox/internal/models"
	"github.com/pkg/errors"
)

// Notifier публикует ParcelEvent в кафку. Ключ сообщения — имя группы,
// поэтому события одной посылки попадают в одну партицию и сохраняют порядок.
type Notifier struct {
	p     *Producer
	topic string
}

func NewNotifier(p *Producer, topic string) *Notifier {
	return &Notifier{p: p, topic: topic}
}

func (n *Notifier) PublishToGroup(ctx context.Context, group, event string, p *models.Parcel) error {
	ev := messages.NewParcelEvent(event, group, p)
	b, err := json.Marshal(ev)
	if err != nil {
		return errors.Wrap(err, "marshal parcel event")
	}
	return n.p.Publish(ctx, n.topic, []byte(group), b)
}

func (n *Notifier) PublishToAll(ctx context.Context, event string, p *models.Parcel) error {
	return n.PublishToGroup(ctx, messages.GroupAll, event, p)
}
