package item

import (
	"catalog/pkg/httperror"
	"context"
)

type GetTypesHandler struct {
	repository Repository
}

type GetTypesRequest struct{}

type GetTypesResponse []string

func NewGetTypesHandler(repository Repository) *GetTypesHandler {
	return &GetTypesHandler{
		repository: repository,
	}
}

func (h GetTypesHandler) Handle(ctx context.Context, _ *GetTypesRequest) (*GetTypesResponse, error) {
	types, err := h.repository.GetTypes(ctx)
	if err != nil {
		return nil, httperror.InternalServerError(
			"item.types.failed",
			"Failed to retrieve item types",
			err.Error(),
		)
	}

	res := GetTypesResponse(types)
	return &res, nil
}
