package domain

import (
	"fmt"
	"time"
)

const (
	EnquiryStatusPending = "pending"

	AnonymousEmail = "anonymous@example.com"
)

type Enquiry struct {
	ID        int64     `db:"id" json:"id"`
	ItemID    *int64    `db:"item_id" json:"itemId"`
	ItemName  string    `db:"item_name" json:"itemName"`
	UserEmail string    `db:"user_email" json:"userEmail"`
	Message   string    `db:"message" json:"message"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// EnquiryView is an enquiry joined with the item it points at, as served by
// GET /api/enquiries. itemName is the name copied when the enquiry was made
// and never changes; currentItemName and itemType are read live from the
// item, so they follow renames and are null once the item has been deleted.
type EnquiryView struct {
	Enquiry
	CurrentItemName *string `db:"current_item_name" json:"currentItemName"`
	ItemType        *string `db:"item_type" json:"itemType"`
}

// DefaultEnquiryMessage is stored when the buyer leaves the message empty.
func DefaultEnquiryMessage(itemName string) string {
	return fmt.Sprintf("User is interested in %s", itemName)
}
