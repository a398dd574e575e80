package enquiry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ItemRef is the optional item id of an enquiry. Clients send it as a number
// or as a numeric string; null, "" and non-positive values mean no item.
type ItemRef struct {
	ID    int64
	Valid bool
}

func (r *ItemRef) UnmarshalJSON(data []byte) error {
	*r = ItemRef{}

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			return nil
		}
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("itemId %q is not a number", raw)
	}
	if id > 0 {
		*r = ItemRef{ID: id, Valid: true}
	}
	return nil
}

func (r ItemRef) Ptr() *int64 {
	if !r.Valid {
		return nil
	}
	id := r.ID
	return &id
}
