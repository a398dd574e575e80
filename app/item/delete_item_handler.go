package item

import (
	"catalog/pkg/events"
	"catalog/pkg/httperror"
	"context"
	"database/sql"
	"errors"
)

const deletedMessage = "Item deleted successfully"

type DeleteItemHandler struct {
	repository Repository
	events     eventPublisher
}

type DeleteItemRequest struct {
	ID string `params:"id"`
}

type DeleteItemResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

func NewDeleteItemHandler(repository Repository, publisher events.Publisher, service string) *DeleteItemHandler {
	return &DeleteItemHandler{
		repository: repository,
		events:     eventPublisher{publisher: publisher, service: service},
	}
}

// Handle removes the row only. Image files and enquiries are left in place.
func (h DeleteItemHandler) Handle(ctx context.Context, req *DeleteItemRequest) (*DeleteItemResponse, error) {
	id, ok := parseID(req.ID)
	if !ok {
		return nil, notFound("destroy")
	}

	if err := h.repository.DeleteItem(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("destroy")
		}
		return nil, httperror.InternalServerError(
			"item.destroy.failed",
			"Failed to delete item",
			err.Error(),
		)
	}

	h.events.itemDeleted(ctx, id)

	return &DeleteItemResponse{
		Message: deletedMessage,
		ID:      id,
	}, nil
}
