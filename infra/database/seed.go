package database

import (
	"catalog/domain"
	"context"
	"fmt"

	"go.uber.org/zap"
)

func strPtr(s string) *string { return &s }

var sampleItems = []domain.Item{
	{
		Name:        "Classic White Shirt",
		Type:        "Shirt",
		Description: strPtr("A comfortable white cotton shirt perfect for formal and casual occasions. Made from premium cotton with a modern fit."),
		CoverImage:  "https://images.unsplash.com/photo-1602810318383-e386cc2a3ccf?w=300&h=300&fit=crop",
		AdditionalImages: domain.Gallery{
			"https://images.unsplash.com/photo-1602810318383-e386cc2a3ccf?w=300&h=300&fit=crop",
			"https://images.unsplash.com/photo-1598300042247-d088f8ab3a91?w=300&h=300&fit=crop",
			"https://images.unsplash.com/photo-1596755094514-f87e34085b2c?w=300&h=300&fit=crop",
		},
	},
	{
		Name:        "Denim Jeans",
		Type:        "Pant",
		Description: strPtr("Premium quality denim jeans with a modern fit. Comfortable for everyday wear with excellent durability."),
		CoverImage:  "https://images.unsplash.com/photo-1542272604-787c3835535d?w=300&h=300&fit=crop",
		AdditionalImages: domain.Gallery{
			"https://images.unsplash.com/photo-1542272604-787c3835535d?w=300&h=300&fit=crop",
			"https://images.unsplash.com/photo-1473966968600-fa801b869a1a?w=300&h=300&fit=crop",
			"https://images.unsplash.com/photo-1506629905607-45320d4b1e39?w=300&h=300&fit=crop",
		},
	},
	{
		Name:        "Running Shoes",
		Type:        "Shoes",
		Description: strPtr("Lightweight running shoes with excellent cushioning and support. Perfect for jogging, running, and casual sports activities."),
		CoverImage:  "https://images.unsplash.com/photo-1549298916-b41d501d3772?w=300&h=300&fit=crop",
		AdditionalImages: domain.Gallery{
			"https://images.unsplash.com/photo-1549298916-b41d501d3772?w=300&h=300&fit=crop",
			"https://images.unsplash.com/photo-1595950653106-6c9ebd614d3a?w=300&h=300&fit=crop",
			"https://images.unsplash.com/photo-1551107696-a4b0c5a0d9a2?w=300&h=300&fit=crop",
		},
	},
	{
		Name:        "Basketball",
		Type:        "Sports Gear",
		Description: strPtr("Professional grade basketball with excellent grip and bounce. Perfect for indoor and outdoor courts."),
		CoverImage:  "https://images.unsplash.com/photo-1546519638-68e109498ffc?w=300&h=300&fit=crop",
		AdditionalImages: domain.Gallery{
			"https://images.unsplash.com/photo-1546519638-68e109498ffc?w=300&h=300&fit=crop",
			"https://images.unsplash.com/photo-1577223625816-7546f13df25d?w=300&h=300&fit=crop",
		},
	},
	{
		Name:        "Leather Watch",
		Type:        "Accessories",
		Description: strPtr("Elegant leather watch with stainless steel case. Water-resistant and perfect for both casual and formal occasions."),
		CoverImage:  "https://images.unsplash.com/photo-1524592094714-0f0654e20314?w=300&h=300&fit=crop",
		AdditionalImages: domain.Gallery{
			"https://images.unsplash.com/photo-1524592094714-0f0654e20314?w=300&h=300&fit=crop",
			"https://images.unsplash.com/photo-1434056886845-dac89ffe9b56?w=300&h=300&fit=crop",
		},
	},
}

func (s *Store) seedSampleItems(ctx context.Context) error {
	var count int
	if _, err := s.FetchOne(ctx, &count, `SELECT COUNT(*) FROM items`); err != nil {
		return err
	}
	if count > 0 {
		zap.L().Info("Sample data already exists", zap.Int("items", count))
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning seed transaction: %w", err)
	}
	defer tx.Rollback()

	for _, item := range sampleItems {
		if _, err := tx.ExecContext(ctx, tx.Rebind(insertItemQuery),
			item.Name, item.Type, item.Description, item.CoverImage, item.AdditionalImages,
		); err != nil {
			return fmt.Errorf("inserting sample item %q: %w", item.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing sample data: %w", err)
	}

	zap.L().Info("Sample data inserted successfully", zap.Int("items", len(sampleItems)))
	return nil
}
