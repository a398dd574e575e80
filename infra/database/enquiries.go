package database

import (
	"catalog/domain"
	"context"
)

func (s *Store) SaveEnquiry(ctx context.Context, enquiry domain.Enquiry) (int64, error) {
	status := enquiry.Status
	if status == "" {
		status = domain.EnquiryStatusPending
	}

	return s.insert(ctx,
		`INSERT INTO enquiries (item_id, item_name, user_email, message, status) VALUES (?, ?, ?, ?, ?)`,
		enquiry.ItemID, enquiry.ItemName, enquiry.UserEmail, enquiry.Message, status,
	)
}

// ListEnquiries returns every enquiry, newest first, joined with the current
// name and type of its item. The join is outer so enquiries about deleted
// items are still listed.
func (s *Store) ListEnquiries(ctx context.Context) ([]domain.EnquiryView, error) {
	enquiries := make([]domain.EnquiryView, 0)
	query := `
		SELECT e.id, e.item_id, e.item_name,
		       COALESCE(e.user_email, '') AS user_email,
		       COALESCE(e.message, '') AS message,
		       e.status, e.created_at,
		       i.name AS current_item_name,
		       i.type AS item_type
		FROM enquiries e
		LEFT JOIN items i ON e.item_id = i.id
		ORDER BY e.created_at DESC, e.id DESC`

	if err := s.FetchAll(ctx, &enquiries, query); err != nil {
		return nil, err
	}
	return enquiries, nil
}
