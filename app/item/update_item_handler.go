package item

import (
	"catalog/domain"
	"catalog/pkg/events"
	"catalog/pkg/httperror"
	"catalog/pkg/upload"
	"context"
	"database/sql"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const updatedMessage = "Item updated successfully"

type UpdateItemHandler struct {
	repository Repository
	images     ImageStore
	events     eventPublisher
}

// UpdateItemRequest carries only the fields the client sent. Empty name or
// type keep the stored value.
type UpdateItemRequest struct {
	ID string
	ItemForm
}

func (r *UpdateItemRequest) Bind(c *fiber.Ctx) error {
	r.ID = c.Params("id")
	if err := r.bindForm(c); err != nil {
		return invalidBody("update")
	}
	return nil
}

type UpdateItemResponse struct {
	ID      int64       `json:"id"`
	Message string      `json:"message"`
	Item    domain.Item `json:"item"`
}

func NewUpdateItemHandler(repository Repository, images ImageStore, publisher events.Publisher, service string) *UpdateItemHandler {
	return &UpdateItemHandler{
		repository: repository,
		images:     images,
		events:     eventPublisher{publisher: publisher, service: service},
	}
}

func (h UpdateItemHandler) Handle(ctx context.Context, req *UpdateItemRequest) (*UpdateItemResponse, error) {
	id, ok := parseID(req.ID)
	if !ok {
		return nil, notFound("update")
	}

	existing, err := h.repository.GetItem(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("update")
		}
		return nil, httperror.InternalServerError(
			"item.update.failed",
			"Failed to retrieve item",
			err.Error(),
		)
	}

	cover, err := h.images.Prepare(upload.CoverField, upload.MaxCoverFiles, req.CoverImage)
	if err != nil {
		return nil, uploadError("update", err)
	}
	gallery, err := h.images.Prepare(upload.GalleryField, upload.MaxGalleryFiles, req.AdditionalImages)
	if err != nil {
		return nil, uploadError("update", err)
	}

	urls, err := h.images.Save(ctx, append(cover, gallery...))
	if err != nil {
		return nil, uploadError("update", err)
	}

	merged := merge(existing, req.ItemForm, urls, len(cover), len(gallery))

	if err := h.repository.UpdateItem(ctx, merged); err != nil {
		h.images.Discard(ctx, urls)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("update")
		}
		return nil, httperror.InternalServerError(
			"item.update.update_failed",
			"Failed to update item",
			err.Error(),
		)
	}

	updated, err := h.repository.GetItem(ctx, id)
	if err != nil {
		zap.L().Warn("Updated item could not be re-read", zap.Int64("itemId", id), zap.Error(err))
		updated = merged
	}

	h.events.itemChanged(ctx, events.ItemUpdatedEvent, updated)

	return &UpdateItemResponse{
		ID:      id,
		Message: updatedMessage,
		Item:    updated,
	}, nil
}

// merge applies the sent fields over existing. urls holds the saved cover
// (if any) followed by the saved gallery images.
func merge(existing domain.Item, form ItemForm, urls []string, covers, galleries int) domain.Item {
	merged := existing

	if form.Name != "" {
		merged.Name = form.Name
	}
	if form.Type != "" {
		merged.Type = form.Type
	}
	if form.Description != nil {
		description := *form.Description
		merged.Description = &description
	}
	if covers > 0 {
		merged.CoverImage = urls[0]
	}
	if galleries > 0 {
		merged.AdditionalImages = append(domain.Gallery{}, urls[covers:]...)
	}

	return merged
}
