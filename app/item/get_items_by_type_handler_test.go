package item

import (
	"catalog/domain"
	"catalog/pkg/httperror"
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type typeRecordingRepository struct {
	Repository
	queried []string
}

func (r *typeRecordingRepository) GetItemsByType(_ context.Context, itemType string) ([]domain.Item, error) {
	r.queried = append(r.queried, itemType)
	return []domain.Item{}, nil
}

func TestGetItemsByTypeDecodesPathSegment(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: "Shirt", want: "Shirt"},
		{raw: "Sports%20Gear", want: "Sports Gear"},
		{raw: "T-Shirt%2FTop", want: "T-Shirt/Top"},
		{raw: "100%25%20Cotton", want: "100% Cotton"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			repo := &typeRecordingRepository{}
			res, err := NewGetItemsByTypeHandler(repo).Handle(context.Background(), &GetItemsByTypeRequest{Type: tt.raw})
			require.NoError(t, err)
			assert.Empty(t, *res)
			assert.Equal(t, []string{tt.want}, repo.queried)
		})
	}
}

func TestGetItemsByTypeRejectsBadEscape(t *testing.T) {
	repo := &typeRecordingRepository{}
	_, err := NewGetItemsByTypeHandler(repo).Handle(context.Background(), &GetItemsByTypeRequest{Type: "Shirt%zz"})

	var httpErr *httperror.Error
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Empty(t, repo.queried)
}
