package item

import (
	"catalog/domain"
	"catalog/pkg/upload"
	"context"
	"mime/multipart"
)

type Repository interface {
	GetItems(ctx context.Context) ([]domain.Item, error)
	GetItemsByType(ctx context.Context, itemType string) ([]domain.Item, error)
	GetItem(ctx context.Context, id int64) (domain.Item, error)
	CreateItem(ctx context.Context, item domain.Item) (int64, error)
	UpdateItem(ctx context.Context, item domain.Item) error
	DeleteItem(ctx context.Context, id int64) error
	GetTypes(ctx context.Context) ([]string, error)
}

// ImageStore validates and persists uploaded images.
type ImageStore interface {
	Prepare(field string, maxCount int, headers []*multipart.FileHeader) ([]upload.File, error)
	Save(ctx context.Context, files []upload.File) ([]string, error)
	Discard(ctx context.Context, urls []string)
}
