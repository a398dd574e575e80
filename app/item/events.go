package item

import (
	"catalog/domain"
	"catalog/pkg/events"
	"context"
	"time"

	"go.uber.org/zap"
)

// eventPublisher wraps an optional events.Publisher. Publish failures are
// logged and never reach the client.
type eventPublisher struct {
	publisher events.Publisher
	service   string
}

func (p eventPublisher) itemChanged(ctx context.Context, name string, item domain.Item) {
	p.publish(ctx, name, item.ID, events.ItemChangedPayload{
		ID:               item.ID,
		Name:             item.Name,
		Type:             item.Type,
		CoverImage:       item.CoverImage,
		AdditionalImages: item.AdditionalImages,
		OccurredAt:       time.Now().UTC(),
	})
}

func (p eventPublisher) itemDeleted(ctx context.Context, id int64) {
	p.publish(ctx, events.ItemDeletedEvent, id, events.ItemDeletedPayload{
		ID:        id,
		DeletedAt: time.Now().UTC(),
	})
}

func (p eventPublisher) publish(ctx context.Context, name string, itemID int64, payload any) {
	if p.publisher == nil {
		return
	}

	headers := events.NewHeaders(p.service)
	event := events.NewEvent(name, events.EventVersionV1, payload, headers)

	if err := p.publisher.Publish(ctx, events.ItemExchange, event, headers); err != nil {
		zap.L().Error("Failed to publish item event",
			zap.String("event", name),
			zap.Int64("itemId", itemID),
			zap.Error(err),
		)
	}
}
