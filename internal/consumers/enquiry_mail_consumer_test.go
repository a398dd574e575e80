package consumers

import (
	"catalog/pkg/events"
	"catalog/pkg/notify"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	got []notify.Message
	err error
}

func (r *recordingNotifier) Notify(_ context.Context, msg notify.Message) error {
	r.got = append(r.got, msg)
	return r.err
}

func enquiryEvent(payload events.EnquiryCreatedPayload) *events.Event {
	return events.NewEvent(events.EnquiryCreatedEvent, events.EventVersionV1, payload, events.NewHeaders("catalog"))
}

func TestEnquiryCreatedIsDelivered(t *testing.T) {
	n := &recordingNotifier{}
	h := NewEnquiryMailHandler(n)

	err := h.HandleEvent(context.Background(), enquiryEvent(events.EnquiryCreatedPayload{
		EnquiryID: 4,
		ItemName:  "Basketball",
		From:      "noreply@itemstore.com",
		To:        []string{"store@example.com"},
		Subject:   "Enquiry for Basketball",
		HTML:      "<h2>New Item Enquiry</h2>",
	}))

	require.NoError(t, err)
	require.Len(t, n.got, 1)
	assert.Equal(t, int64(4), n.got[0].EnquiryID)
	assert.Equal(t, "Enquiry for Basketball", n.got[0].Subject)
}

func TestMalformedEnquiryIsRejected(t *testing.T) {
	n := &recordingNotifier{}
	h := NewEnquiryMailHandler(n)

	err := h.HandleEvent(context.Background(), enquiryEvent(events.EnquiryCreatedPayload{Subject: "s", HTML: "b"}))

	assert.ErrorContains(t, err, "recipient missing")
	assert.Empty(t, n.got)
}

func TestDeliveryFailureIsReturned(t *testing.T) {
	h := NewEnquiryMailHandler(&recordingNotifier{err: errors.New("smtp down")})

	err := h.HandleEvent(context.Background(), enquiryEvent(events.EnquiryCreatedPayload{
		To:      []string{"store@example.com"},
		Subject: "s",
		HTML:    "b",
	}))

	assert.ErrorContains(t, err, "smtp down")
}

func TestUnknownEventsAreAcknowledged(t *testing.T) {
	n := &recordingNotifier{}
	h := NewEnquiryMailHandler(n)

	err := h.HandleEvent(context.Background(), events.NewEvent("enquiry.archived", events.EventVersionV1, nil, events.NewHeaders("catalog")))

	assert.NoError(t, err)
	assert.Empty(t, n.got)
}
