package item

import (
	"bytes"
	"catalog/pkg/upload"
	"encoding/json"
	"errors"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

var errMalformedBody = errors.New("malformed request body")

// ItemForm is the editable part of an item as sent by the client, either as
// multipart/form-data with image files or as JSON without them.
type ItemForm struct {
	Name        string  `json:"name" validate:"required"`
	Type        string  `json:"type" validate:"required"`
	Description *string `json:"description"`

	CoverImage       []*multipart.FileHeader `json:"-"`
	AdditionalImages []*multipart.FileHeader `json:"-"`
}

// bindForm fills f from the request body. A form field that is present but
// empty yields a non-nil empty Description, which clears it on update.
func (f *ItemForm) bindForm(c *fiber.Ctx) error {
	contentType := strings.ToLower(string(c.Request().Header.ContentType()))

	switch {
	case strings.HasPrefix(contentType, fiber.MIMEMultipartForm):
		form, err := c.MultipartForm()
		if err != nil {
			return errMalformedBody
		}
		f.Name = firstValue(form.Value, "name")
		f.Type = firstValue(form.Value, "type")
		if values, ok := form.Value["description"]; ok && len(values) > 0 {
			f.Description = &values[0]
		}
		f.CoverImage = form.File[upload.CoverField]
		f.AdditionalImages = form.File[upload.GalleryField]

	case strings.HasPrefix(contentType, fiber.MIMEApplicationJSON):
		body := bytes.TrimSpace(c.Body())
		if len(body) == 0 {
			return nil
		}
		if err := json.Unmarshal(body, f); err != nil {
			return errMalformedBody
		}

	case strings.HasPrefix(contentType, fiber.MIMEApplicationForm):
		args := c.Request().PostArgs()
		f.Name = string(args.Peek("name"))
		f.Type = string(args.Peek("type"))
		if args.Has("description") {
			d := string(args.Peek("description"))
			f.Description = &d
		}
	}

	return nil
}

func firstValue(values map[string][]string, key string) string {
	if v := values[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}

// parseID accepts positive decimal ids only.
func parseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
