package item

import (
	"catalog/pkg/httperror"
	"context"
	"net/url"
)

type GetItemsByTypeHandler struct {
	repository Repository
}

// GetItemsByTypeRequest carries the raw path segment; routing runs on the
// escaped path so types containing "/" stay reachable as %2F.
type GetItemsByTypeRequest struct {
	Type string `params:"type"`
}

func NewGetItemsByTypeHandler(repository Repository) *GetItemsByTypeHandler {
	return &GetItemsByTypeHandler{
		repository: repository,
	}
}

// Handle matches type exactly, including case.
func (h GetItemsByTypeHandler) Handle(ctx context.Context, req *GetItemsByTypeRequest) (*GetItemsResponse, error) {
	itemType, err := url.PathUnescape(req.Type)
	if err != nil {
		return nil, httperror.BadRequest(
			"item.by_type.invalid_type",
			"Invalid type",
			err.Error(),
		)
	}

	items, err := h.repository.GetItemsByType(ctx, itemType)
	if err != nil {
		return nil, httperror.InternalServerError(
			"item.by_type.failed",
			"Failed to retrieve items",
			err.Error(),
		)
	}

	res := GetItemsResponse(items)
	return &res, nil
}
