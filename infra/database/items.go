package database

import (
	"catalog/domain"
	"context"
	"database/sql"
	"fmt"
)

const itemColumns = `id, name, type, description, COALESCE(cover_image, '') AS cover_image,
       additional_images, created_at, updated_at`

const insertItemQuery = `INSERT INTO items (name, type, description, cover_image, additional_images)
VALUES (?, ?, ?, ?, ?)`

func (s *Store) GetItems(ctx context.Context) ([]domain.Item, error) {
	items := make([]domain.Item, 0)
	query := `SELECT ` + itemColumns + ` FROM items ORDER BY created_at DESC, id DESC`

	if err := s.FetchAll(ctx, &items, query); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) GetItemsByType(ctx context.Context, itemType string) ([]domain.Item, error) {
	items := make([]domain.Item, 0)
	query := `SELECT ` + itemColumns + ` FROM items WHERE type = ? ORDER BY created_at DESC, id DESC`

	if err := s.FetchAll(ctx, &items, query, itemType); err != nil {
		return nil, err
	}
	return items, nil
}

// GetItem returns sql.ErrNoRows (wrapped) when no item has the given id.
func (s *Store) GetItem(ctx context.Context, id int64) (domain.Item, error) {
	var i domain.Item
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = ?`

	found, err := s.FetchOne(ctx, &i, query, id)
	if err != nil {
		return i, err
	}
	if !found {
		return i, fmt.Errorf("item %d: %w", id, sql.ErrNoRows)
	}
	return i, nil
}

func (s *Store) CreateItem(ctx context.Context, item domain.Item) (int64, error) {
	return s.insert(ctx, insertItemQuery,
		item.Name, item.Type, item.Description, item.CoverImage, item.AdditionalImages,
	)
}

func (s *Store) UpdateItem(ctx context.Context, item domain.Item) error {
	query := `
        UPDATE items SET
            name = ?,
            type = ?,
            description = ?,
            cover_image = ?,
            additional_images = ?,
            updated_at = CURRENT_TIMESTAMP
        WHERE id = ?`

	res, err := s.Execute(ctx, query,
		item.Name, item.Type, item.Description, item.CoverImage, item.AdditionalImages, item.ID,
	)
	if err != nil {
		return err
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("item %d: %w", item.ID, sql.ErrNoRows)
	}
	return nil
}

// DeleteItem removes the row only. Enquiries pointing at it are kept.
func (s *Store) DeleteItem(ctx context.Context, id int64) error {
	res, err := s.Execute(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("item %d: %w", id, sql.ErrNoRows)
	}
	return nil
}

func (s *Store) GetTypes(ctx context.Context) ([]string, error) {
	types := make([]string, 0)
	if err := s.FetchAll(ctx, &types, `SELECT DISTINCT type FROM items ORDER BY type`); err != nil {
		return nil, err
	}
	return types, nil
}

// GetImagePaths returns every cover and gallery path referenced by an item.
func (s *Store) GetImagePaths(ctx context.Context) ([]string, error) {
	var rows []struct {
		CoverImage       string         `db:"cover_image"`
		AdditionalImages domain.Gallery `db:"additional_images"`
	}
	query := `SELECT COALESCE(cover_image, '') AS cover_image, additional_images FROM items`
	if err := s.FetchAll(ctx, &rows, query); err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(rows))
	for _, row := range rows {
		if row.CoverImage != "" {
			paths = append(paths, row.CoverImage)
		}
		paths = append(paths, row.AdditionalImages...)
	}
	return paths, nil
}
