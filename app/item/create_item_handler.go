package item

import (
	"catalog/domain"
	"catalog/pkg/events"
	"catalog/pkg/httperror"
	"catalog/pkg/upload"
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const createdMessage = "Item successfully added"

type CreateItemHandler struct {
	repository Repository
	images     ImageStore
	events     eventPublisher
	validate   *validator.Validate
}

type CreateItemRequest struct {
	ItemForm
}

func (r *CreateItemRequest) Bind(c *fiber.Ctx) error {
	if err := r.bindForm(c); err != nil {
		return invalidBody("create")
	}
	return nil
}

type CreateItemResponse struct {
	ID      int64       `json:"id"`
	Message string      `json:"message"`
	Item    domain.Item `json:"item"`
}

func NewCreateItemHandler(repository Repository, images ImageStore, publisher events.Publisher, service string) *CreateItemHandler {
	return &CreateItemHandler{
		repository: repository,
		images:     images,
		events:     eventPublisher{publisher: publisher, service: service},
		validate:   validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h CreateItemHandler) Handle(ctx context.Context, req *CreateItemRequest) (*CreateItemResponse, error) {
	if err := h.validate.Struct(req.ItemForm); err != nil {
		if ve, ok := err.(validator.ValidationErrors); ok {
			return nil, httperror.BadRequest(
				"item.create.validation_failed",
				"Name and type are required",
				ve.Error(),
			)
		}

		return nil, httperror.InternalServerError(
			"item.create.validation_error",
			"An unexpected validation error occurred",
			nil,
		)
	}

	cover, err := h.images.Prepare(upload.CoverField, upload.MaxCoverFiles, req.CoverImage)
	if err != nil {
		return nil, uploadError("create", err)
	}
	gallery, err := h.images.Prepare(upload.GalleryField, upload.MaxGalleryFiles, req.AdditionalImages)
	if err != nil {
		return nil, uploadError("create", err)
	}

	urls, err := h.images.Save(ctx, append(cover, gallery...))
	if err != nil {
		return nil, uploadError("create", err)
	}

	description := ""
	if req.Description != nil {
		description = *req.Description
	}

	item := domain.Item{
		Name:             req.Name,
		Type:             req.Type,
		Description:      &description,
		AdditionalImages: domain.Gallery{},
	}
	if len(cover) > 0 {
		item.CoverImage = urls[0]
	}
	item.AdditionalImages = append(item.AdditionalImages, urls[len(cover):]...)

	id, err := h.repository.CreateItem(ctx, item)
	if err != nil {
		h.images.Discard(ctx, urls)
		return nil, httperror.InternalServerError(
			"item.create.create_failed",
			"Failed to create item",
			err.Error(),
		)
	}

	created, err := h.repository.GetItem(ctx, id)
	if err != nil {
		zap.L().Warn("Created item could not be re-read", zap.Int64("itemId", id), zap.Error(err))
		item.ID = id
		created = item
	}

	h.events.itemChanged(ctx, events.ItemCreatedEvent, created)

	return &CreateItemResponse{
		ID:      id,
		Message: createdMessage,
		Item:    created,
	}, nil
}
