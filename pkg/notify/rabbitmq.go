package notify

import (
	"catalog/pkg/events"
	"context"
)

// RabbitMQNotifier hands the message to the mail worker as an
// enquiry.created event.
type RabbitMQNotifier struct {
	publisher events.Publisher
	service   string
}

func NewRabbitMQNotifier(publisher events.Publisher, service string) *RabbitMQNotifier {
	return &RabbitMQNotifier{
		publisher: publisher,
		service:   service,
	}
}

func (r *RabbitMQNotifier) Notify(ctx context.Context, msg Message) error {
	headers := events.NewHeaders(r.service)
	event := events.NewEvent(
		events.EnquiryCreatedEvent,
		events.EventVersionV1,
		events.EnquiryCreatedPayload{
			EnquiryID: msg.EnquiryID,
			ItemName:  msg.ItemName,
			From:      msg.From,
			To:        msg.To,
			Subject:   msg.Subject,
			HTML:      msg.HTML,
			CreatedAt: msg.CreatedAt,
		},
		headers,
	)

	return r.publisher.Publish(ctx, events.EnquiryExchange, event, headers)
}

// FromEnquiryEvent rebuilds the message carried by an enquiry.created event.
func FromEnquiryEvent(p events.EnquiryCreatedPayload) Message {
	return Message{
		EnquiryID: p.EnquiryID,
		ItemName:  p.ItemName,
		From:      p.From,
		To:        p.To,
		Subject:   p.Subject,
		HTML:      p.HTML,
		CreatedAt: p.CreatedAt,
	}
}
