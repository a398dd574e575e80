package enquiry

import (
	"catalog/domain"
	"catalog/pkg/httperror"
	"context"
)

type GetEnquiriesHandler struct {
	repository Repository
}

type GetEnquiriesRequest struct{}

type GetEnquiriesResponse []domain.EnquiryView

func NewGetEnquiriesHandler(repository Repository) *GetEnquiriesHandler {
	return &GetEnquiriesHandler{
		repository: repository,
	}
}

func (h GetEnquiriesHandler) Handle(ctx context.Context, _ *GetEnquiriesRequest) (*GetEnquiriesResponse, error) {
	enquiries, err := h.repository.ListEnquiries(ctx)
	if err != nil {
		return nil, httperror.InternalServerError(
			"enquiry.index.failed",
			"Failed to retrieve enquiries",
			err.Error(),
		)
	}

	res := GetEnquiriesResponse(enquiries)
	return &res, nil
}
