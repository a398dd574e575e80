package events

import (
	"time"
)

// Exchanges
const (
	ItemExchange    = "catalog.item"
	EnquiryExchange = "catalog.enquiry"
)

// Event names
const (
	ItemCreatedEvent    = "item.created"
	ItemUpdatedEvent    = "item.updated"
	ItemDeletedEvent    = "item.deleted"
	EnquiryCreatedEvent = "enquiry.created"
)

// Event versions
const (
	EventVersionV1 = "v1"
)

type ItemChangedPayload struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Type             string    `json:"type"`
	CoverImage       string    `json:"coverImage"`
	AdditionalImages []string  `json:"additionalImages"`
	OccurredAt       time.Time `json:"occurredAt"`
}

type ItemDeletedPayload struct {
	ID        int64     `json:"id"`
	DeletedAt time.Time `json:"deletedAt"`
}

// EnquiryCreatedPayload carries a fully rendered notification so the mail
// worker does not need access to the catalog database.
type EnquiryCreatedPayload struct {
	EnquiryID int64     `json:"enquiryId"`
	ItemName  string    `json:"itemName"`
	From      string    `json:"from"`
	To        []string  `json:"to"`
	Subject   string    `json:"subject"`
	HTML      string    `json:"html"`
	CreatedAt time.Time `json:"createdAt"`
}
