package domain

import "time"

type Item struct {
	ID               int64     `db:"id" json:"id"`
	Name             string    `db:"name" json:"name"`
	Type             string    `db:"type" json:"type"`
	Description      *string   `db:"description" json:"description"`
	CoverImage       string    `db:"cover_image" json:"coverImage"`
	AdditionalImages Gallery   `db:"additional_images" json:"additionalImages"`
	CreatedAt        time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time `db:"updated_at" json:"updatedAt"`
}
