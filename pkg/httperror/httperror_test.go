package httperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructorsSetStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, BadRequest("c", "m", nil).Status)
	assert.Equal(t, http.StatusNotFound, NotFound("c", "m", nil).Status)
	assert.Equal(t, http.StatusInternalServerError, InternalServerError("c", "m", nil).Status)
}

func TestErrorUnwrapsThroughWrapping(t *testing.T) {
	err := fmt.Errorf("handler: %w", NotFound("item.show.not_found", "Item not found", nil))

	var httpErr *Error
	assert.True(t, errors.As(err, &httpErr))
	assert.Equal(t, "item.show.not_found: Item not found", httpErr.Error())
}

func TestWithBody(t *testing.T) {
	err := InternalServerError("enquiry.create.failed", "boom", nil).WithBody(map[string]any{"success": false})
	assert.Equal(t, map[string]any{"success": false}, err.Body)
}
