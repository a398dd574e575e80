package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Gallery is the ordered list of non-cover image paths of an item. At rest it
// is a JSON array in a text column; a NULL or empty column reads as an empty
// gallery.
type Gallery []string

func EncodeGallery(g Gallery) (string, error) {
	if g == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(g))
	if err != nil {
		return "", fmt.Errorf("encoding gallery: %w", err)
	}
	return string(b), nil
}

func DecodeGallery(raw string) (Gallery, error) {
	if raw == "" || raw == "null" {
		return Gallery{}, nil
	}
	var paths []string
	if err := json.Unmarshal([]byte(raw), &paths); err != nil {
		return nil, fmt.Errorf("decoding gallery %q: %w", raw, err)
	}
	if paths == nil {
		return Gallery{}, nil
	}
	return Gallery(paths), nil
}

func (g Gallery) Value() (driver.Value, error) {
	return EncodeGallery(g)
}

func (g *Gallery) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case nil:
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("scanning gallery: unsupported type %T", src)
	}

	decoded, err := DecodeGallery(raw)
	if err != nil {
		return err
	}
	*g = decoded
	return nil
}

func (g Gallery) MarshalJSON() ([]byte, error) {
	if g == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(g))
}
