package consumers

import (
	"catalog/pkg/events"
	"catalog/pkg/notify"
	"context"
	"fmt"

	"go.uber.org/zap"
)

// EnquiryMailHandler delivers enquiry.created events through a notifier,
// normally SMTP.
type EnquiryMailHandler struct {
	notifier notify.Notifier
}

func NewEnquiryMailHandler(notifier notify.Notifier) *EnquiryMailHandler {
	return &EnquiryMailHandler{
		notifier: notifier,
	}
}

func (h *EnquiryMailHandler) HandleEvent(ctx context.Context, event *events.Event) error {
	zap.L().Info("Enquiry event received",
		zap.String("event", event.Event),
		zap.String("version", event.Version),
		zap.String("traceId", event.TraceID),
	)

	switch event.Event {
	case events.EnquiryCreatedEvent:
		return h.handleEnquiryCreated(ctx, event)
	default:
		zap.L().Warn("Unknown enquiry event type", zap.String("event", event.Event))
		return nil
	}
}

func (h *EnquiryMailHandler) handleEnquiryCreated(ctx context.Context, event *events.Event) error {
	var payload events.EnquiryCreatedPayload
	if err := event.DecodePayload(&payload); err != nil {
		return fmt.Errorf("malformed payload: %w", err)
	}

	if len(payload.To) == 0 {
		return fmt.Errorf("malformed payload - recipient missing")
	}
	if payload.Subject == "" || payload.HTML == "" {
		return fmt.Errorf("malformed payload - subject or body missing")
	}

	if err := h.notifier.Notify(ctx, notify.FromEnquiryEvent(payload)); err != nil {
		return fmt.Errorf("failed to deliver enquiry %d: %w", payload.EnquiryID, err)
	}

	zap.L().Info("Enquiry delivered",
		zap.Int64("enquiryId", payload.EnquiryID),
		zap.String("itemName", payload.ItemName),
		zap.String("traceId", event.TraceID),
	)
	return nil
}
