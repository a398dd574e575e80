package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGalleryRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		gallery Gallery
		want    Gallery
	}{
		{"nil", nil, Gallery{}},
		{"empty", Gallery{}, Gallery{}},
		{"ordered", Gallery{"a.png", "b.png"}, Gallery{"a.png", "b.png"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := EncodeGallery(tt.gallery)
			require.NoError(t, err)

			got, err := DecodeGallery(raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeGalleryAbsentValues(t *testing.T) {
	for _, raw := range []string{"", "null", "[]"} {
		got, err := DecodeGallery(raw)
		require.NoError(t, err, raw)
		assert.NotNil(t, got, raw)
		assert.Empty(t, got, raw)
	}
}

func TestDecodeGalleryRejectsNonArray(t *testing.T) {
	_, err := DecodeGallery(`{"a":1}`)
	assert.Error(t, err)
}

func TestGalleryScan(t *testing.T) {
	var g Gallery
	require.NoError(t, g.Scan([]byte(`["/uploads/x.png"]`)))
	assert.Equal(t, Gallery{"/uploads/x.png"}, g)

	require.NoError(t, g.Scan(nil))
	assert.Equal(t, Gallery{}, g)

	assert.Error(t, g.Scan(42))
}

func TestGalleryValueOfNil(t *testing.T) {
	v, err := Gallery(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)
}

func TestGalleryMarshalsNilAsEmptyArray(t *testing.T) {
	b, err := json.Marshal(Item{Name: "x"})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, []any{}, decoded["additionalImages"])
}
