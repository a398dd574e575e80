package item

import (
	"catalog/domain"
	"catalog/pkg/httperror"
	"context"
	"database/sql"
	"errors"
)

type GetItemHandler struct {
	repository Repository
}

type GetItemRequest struct {
	ID string `params:"id"`
}

type GetItemResponse = domain.Item

func NewGetItemHandler(repository Repository) *GetItemHandler {
	return &GetItemHandler{
		repository: repository,
	}
}

func (h GetItemHandler) Handle(ctx context.Context, req *GetItemRequest) (*GetItemResponse, error) {
	id, ok := parseID(req.ID)
	if !ok {
		return nil, notFound("show")
	}

	item, err := h.repository.GetItem(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("show")
		}
		return nil, httperror.InternalServerError(
			"item.show.failed",
			"Failed to retrieve item",
			err.Error(),
		)
	}

	return &item, nil
}
