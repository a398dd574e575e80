package item

import (
	"catalog/pkg/httperror"
	"catalog/pkg/upload"
	"errors"

	"github.com/gofiber/fiber/v2"
)

func notFound(op string) error {
	return httperror.NotFound("item."+op+".not_found", "Item not found", nil)
}

func invalidBody(op string) error {
	return httperror.BadRequest("item."+op+".invalid_body", "Invalid request body", nil)
}

// uploadError maps a rejected or failed upload to a response.
func uploadError(op string, err error) error {
	var ve *upload.ValidationError
	if errors.As(err, &ve) {
		message := "Only image files are allowed!"
		switch {
		case errors.Is(err, upload.ErrTooManyFiles):
			message = "Too many files"
		case errors.Is(err, upload.ErrFileTooLarge):
			message = "File too large"
		}
		return httperror.BadRequest("item."+op+".upload_rejected", message, fiber.Map{
			"field":    ve.Field,
			"filename": ve.Filename,
		})
	}

	return httperror.InternalServerError("item."+op+".upload_failed", "Failed to store uploaded images", err.Error())
}
