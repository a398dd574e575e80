package enquiry

import (
	"catalog/domain"
	"context"
)

type Repository interface {
	SaveEnquiry(ctx context.Context, enquiry domain.Enquiry) (int64, error)
	ListEnquiries(ctx context.Context) ([]domain.EnquiryView, error)
}
