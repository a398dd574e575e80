package server

import (
	"bytes"
	"catalog/domain"
	"catalog/infra/database"
	"catalog/infra/database/databasetest"
	"catalog/pkg/config"
	"catalog/pkg/events"
	"catalog/pkg/notify"
	"catalog/pkg/upload"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)

type recordingNotifier struct {
	mu   sync.Mutex
	msgs []notify.Message
	err  error
}

func (r *recordingNotifier) Notify(_ context.Context, msg notify.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
	return r.err
}

func (r *recordingNotifier) messages() []notify.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notify.Message(nil), r.msgs...)
}

type testEnv struct {
	server    *Server
	store     *database.Store
	notifier  *recordingNotifier
	uploadDir string
}

func newTestEnv(t *testing.T, seed bool) *testEnv {
	t.Helper()

	store := databasetest.NewStore(t, seed)
	uploadDir := t.TempDir()
	disk, err := upload.NewDisk(uploadDir, "/uploads")
	require.NoError(t, err)

	notifier := &recordingNotifier{}
	cfg := &config.AppConfig{
		ServiceName:     "catalog",
		UploadDir:       uploadDir,
		UploadURLPrefix: "/uploads",
		StoreEmail:      "store@example.com",
		MailFrom:        "noreply@itemstore.com",
	}

	srv := New(Dependencies{
		Config:       cfg,
		Store:        store,
		Images:       upload.NewUploader(disk, upload.DefaultMaxFileBytes),
		Notifier:     notifier,
		ServeUploads: true,
	})

	return &testEnv{server: srv, store: store, notifier: notifier, uploadDir: uploadDir}
}

type formFile struct {
	field       string
	filename    string
	contentType string
	data        []byte
}

func multipartRequest(t *testing.T, method, target string, fields map[string]string, files ...formFile) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+f.field+`"; filename="`+f.filename+`"`)
		h.Set("Content-Type", f.contentType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, target, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func jsonRequest(t *testing.T, method, target string, payload any) *http.Request {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func (e *testEnv) do(t *testing.T, req *http.Request, out any) int {
	t.Helper()
	resp, err := e.server.App.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if out != nil {
		require.NoError(t, json.Unmarshal(body, out), string(body))
	}
	return resp.StatusCode
}

type itemResponse struct {
	ID      int64       `json:"id"`
	Message string      `json:"message"`
	Item    domain.Item `json:"item"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func TestCreateItemWithCoverThenListTypes(t *testing.T) {
	env := newTestEnv(t, false)

	var created itemResponse
	status := env.do(t, multipartRequest(t, "POST", "/api/items",
		map[string]string{"name": "Classic White Shirt", "type": "Shirt"},
		formFile{"coverImage", "shirt.png", "image/png", pngBytes},
	), &created)

	require.Equal(t, http.StatusOK, status)
	assert.Positive(t, created.ID)
	assert.Equal(t, "Item successfully added", created.Message)
	assert.Equal(t, created.ID, created.Item.ID)
	assert.Equal(t, "Shirt", created.Item.Type)
	assert.Equal(t, domain.Gallery{}, created.Item.AdditionalImages)
	require.NotNil(t, created.Item.Description)
	assert.Empty(t, *created.Item.Description)
	assert.True(t, strings.HasPrefix(created.Item.CoverImage, "/uploads/coverImage-"))

	var types []string
	require.Equal(t, http.StatusOK, env.do(t, httptest.NewRequest("GET", "/api/items/meta/types", nil), &types))
	assert.Contains(t, types, "Shirt")

	resp, err := env.server.App.Test(httptest.NewRequest("GET", created.Item.CoverImage, nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	served, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, pngBytes, served)

	var fetched domain.Item
	require.Equal(t, http.StatusOK, env.do(t, httptest.NewRequest("GET", "/api/items/"+itoa(created.ID), nil), &fetched))
	assert.Equal(t, created.Item, fetched)
}

func TestCreateItemIDsAreUnique(t *testing.T) {
	env := newTestEnv(t, true)
	seen := map[int64]bool{}

	for _, name := range []string{"A", "B", "C"} {
		var created itemResponse
		status := env.do(t, jsonRequest(t, "POST", "/api/items", map[string]string{"name": name, "type": "T", "description": "d"}), &created)
		require.Equal(t, http.StatusOK, status)
		assert.Positive(t, created.ID)
		assert.False(t, seen[created.ID])
		seen[created.ID] = true
		require.NotNil(t, created.Item.Description)
		assert.Equal(t, "d", *created.Item.Description)
	}
}

func TestCreateItemWithGallery(t *testing.T) {
	env := newTestEnv(t, false)

	var created itemResponse
	status := env.do(t, multipartRequest(t, "POST", "/api/items",
		map[string]string{"name": "Running Shoes", "type": "Shoes", "description": "Light"},
		formFile{"additionalImages", "a.png", "image/png", pngBytes},
		formFile{"additionalImages", "b.png", "image/png", pngBytes},
	), &created)

	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, created.Item.CoverImage)
	require.Len(t, created.Item.AdditionalImages, 2)
	for _, p := range created.Item.AdditionalImages {
		assert.True(t, strings.HasPrefix(p, "/uploads/additionalImages-"))
	}
}

func TestCreateItemRequiresNameAndType(t *testing.T) {
	env := newTestEnv(t, false)

	var body errorResponse
	status := env.do(t, multipartRequest(t, "POST", "/api/items", map[string]string{"name": "Only name"}), &body)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Name and type are required", body.Error)
	assert.Equal(t, "item.create.validation_failed", body.Code)
}

func TestCreateItemRejectsBadUploads(t *testing.T) {
	tests := []struct {
		name  string
		files []formFile
		want  string
	}{
		{
			name:  "not an image",
			files: []formFile{{"coverImage", "notes.txt", "text/plain", []byte("hello")}},
			want:  "Only image files are allowed!",
		},
		{
			name: "two covers",
			files: []formFile{
				{"coverImage", "a.png", "image/png", pngBytes},
				{"coverImage", "b.png", "image/png", pngBytes},
			},
			want: "Too many files",
		},
		{
			name: "six gallery images",
			files: []formFile{
				{"additionalImages", "1.png", "image/png", pngBytes},
				{"additionalImages", "2.png", "image/png", pngBytes},
				{"additionalImages", "3.png", "image/png", pngBytes},
				{"additionalImages", "4.png", "image/png", pngBytes},
				{"additionalImages", "5.png", "image/png", pngBytes},
				{"additionalImages", "6.png", "image/png", pngBytes},
			},
			want: "Too many files",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, false)

			var body errorResponse
			status := env.do(t, multipartRequest(t, "POST", "/api/items",
				map[string]string{"name": "n", "type": "t"}, tt.files...), &body)

			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, tt.want, body.Error)

			entries, err := os.ReadDir(env.uploadDir)
			require.NoError(t, err)
			assert.Empty(t, entries)

			var items []domain.Item
			env.do(t, httptest.NewRequest("GET", "/api/items", nil), &items)
			assert.Empty(t, items)
		})
	}
}

func TestGetItemNotFound(t *testing.T) {
	env := newTestEnv(t, true)

	for _, id := range []string{"9999", "abc", "0", "-1"} {
		var body errorResponse
		status := env.do(t, httptest.NewRequest("GET", "/api/items/"+id, nil), &body)
		assert.Equal(t, http.StatusNotFound, status, id)
		assert.Equal(t, "Item not found", body.Error)
	}
}

func TestUpdateItemMergesFields(t *testing.T) {
	env := newTestEnv(t, false)

	var created itemResponse
	require.Equal(t, http.StatusOK, env.do(t, multipartRequest(t, "POST", "/api/items",
		map[string]string{"name": "Denim Jeans", "type": "Pant", "description": "Blue denim"},
		formFile{"coverImage", "c.png", "image/png", pngBytes},
		formFile{"additionalImages", "g1.png", "image/png", pngBytes},
	), &created))
	target := "/api/items/" + itoa(created.ID)

	// description omitted: kept
	var updated itemResponse
	require.Equal(t, http.StatusOK, env.do(t, multipartRequest(t, "PUT", target,
		map[string]string{"name": "Black Jeans"}), &updated))
	assert.Equal(t, "Item updated successfully", updated.Message)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Black Jeans", updated.Item.Name)
	assert.Equal(t, "Pant", updated.Item.Type)
	require.NotNil(t, updated.Item.Description)
	assert.Equal(t, "Blue denim", *updated.Item.Description)
	assert.Equal(t, created.Item.CoverImage, updated.Item.CoverImage)
	assert.Equal(t, created.Item.AdditionalImages, updated.Item.AdditionalImages)

	// description sent empty: cleared
	require.Equal(t, http.StatusOK, env.do(t, multipartRequest(t, "PUT", target,
		map[string]string{"description": ""}), &updated))
	require.NotNil(t, updated.Item.Description)
	assert.Empty(t, *updated.Item.Description)
	assert.Equal(t, "Black Jeans", updated.Item.Name)

	// new gallery replaces the whole gallery, cover kept
	require.Equal(t, http.StatusOK, env.do(t, multipartRequest(t, "PUT", target, nil,
		formFile{"additionalImages", "g2.png", "image/png", pngBytes},
		formFile{"additionalImages", "g3.png", "image/png", pngBytes},
	), &updated))
	assert.Equal(t, created.Item.CoverImage, updated.Item.CoverImage)
	require.Len(t, updated.Item.AdditionalImages, 2)
	assert.NotContains(t, updated.Item.AdditionalImages, created.Item.AdditionalImages[0])

	// new cover replaces the cover
	require.Equal(t, http.StatusOK, env.do(t, multipartRequest(t, "PUT", target, nil,
		formFile{"coverImage", "c2.png", "image/png", pngBytes},
	), &updated))
	assert.NotEqual(t, created.Item.CoverImage, updated.Item.CoverImage)
	assert.Len(t, updated.Item.AdditionalImages, 2)
}

func TestUpdateItemWithJSON(t *testing.T) {
	env := newTestEnv(t, false)

	var created itemResponse
	require.Equal(t, http.StatusOK, env.do(t, jsonRequest(t, "POST", "/api/items",
		map[string]any{"name": "Basketball", "type": "Sports Gear", "description": "Orange"}), &created))
	target := "/api/items/" + itoa(created.ID)

	var updated itemResponse
	require.Equal(t, http.StatusOK, env.do(t, jsonRequest(t, "PUT", target, map[string]any{"type": "Sports"}), &updated))
	assert.Equal(t, "Sports", updated.Item.Type)
	require.NotNil(t, updated.Item.Description)
	assert.Equal(t, "Orange", *updated.Item.Description)

	require.Equal(t, http.StatusOK, env.do(t, jsonRequest(t, "PUT", target, map[string]any{"description": ""}), &updated))
	require.NotNil(t, updated.Item.Description)
	assert.Empty(t, *updated.Item.Description)
}

func TestUpdateMissingItem(t *testing.T) {
	env := newTestEnv(t, false)

	var body errorResponse
	status := env.do(t, multipartRequest(t, "PUT", "/api/items/77", map[string]string{"name": "x"},
		formFile{"coverImage", "c.png", "image/png", pngBytes},
	), &body)

	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Item not found", body.Error)

	entries, err := os.ReadDir(env.uploadDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDeleteItem(t *testing.T) {
	env := newTestEnv(t, true)

	var before []domain.Item
	env.do(t, httptest.NewRequest("GET", "/api/items", nil), &before)

	var body errorResponse
	status := env.do(t, httptest.NewRequest("DELETE", "/api/items/4242", nil), &body)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Item not found", body.Error)

	var after []domain.Item
	env.do(t, httptest.NewRequest("GET", "/api/items", nil), &after)
	assert.Equal(t, before, after)

	var deleted struct {
		Message string `json:"message"`
		ID      int64  `json:"id"`
	}
	target := "/api/items/" + itoa(before[0].ID)
	require.Equal(t, http.StatusOK, env.do(t, httptest.NewRequest("DELETE", target, nil), &deleted))
	assert.Equal(t, "Item deleted successfully", deleted.Message)
	assert.Equal(t, before[0].ID, deleted.ID)

	assert.Equal(t, http.StatusNotFound, env.do(t, httptest.NewRequest("GET", target, nil), nil))
}

func TestListItemsByType(t *testing.T) {
	env := newTestEnv(t, true)

	resp, err := env.server.App.Test(httptest.NewRequest("GET", "/api/items/type/Nothing", nil), -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, "[]", string(body))

	var items []domain.Item
	require.Equal(t, http.StatusOK, env.do(t, httptest.NewRequest("GET", "/api/items/type/"+url.PathEscape("Sports Gear"), nil), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "Basketball", items[0].Name)
	assert.NotEmpty(t, items[0].AdditionalImages)

	env.do(t, httptest.NewRequest("GET", "/api/items/type/sports%20gear", nil), &items)
	assert.Empty(t, items)
}

func TestListItemsByTypeContainingSlash(t *testing.T) {
	env := newTestEnv(t, false)

	var created itemResponse
	require.Equal(t, http.StatusOK, env.do(t, jsonRequest(t, "POST", "/api/items",
		map[string]string{"name": "A", "type": "T-Shirt/Top"}), &created))

	var types []string
	require.Equal(t, http.StatusOK, env.do(t, httptest.NewRequest("GET", "/api/items/meta/types", nil), &types))
	assert.Equal(t, []string{"T-Shirt/Top"}, types)

	var items []domain.Item
	require.Equal(t, http.StatusOK, env.do(t, httptest.NewRequest("GET", "/api/items/type/"+url.PathEscape(types[0]), nil), &items))
	require.Len(t, items, 1)
	assert.Equal(t, created.ID, items[0].ID)
}

func TestEnquiryWithDefaults(t *testing.T) {
	env := newTestEnv(t, false)

	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	status := env.do(t, jsonRequest(t, "POST", "/api/enquire", map[string]any{"itemName": "Basketball"}), &resp)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, resp.Success)
	assert.Equal(t, "Enquiry submitted successfully!", resp.Message)

	var enquiries []domain.EnquiryView
	require.Equal(t, http.StatusOK, env.do(t, httptest.NewRequest("GET", "/api/enquiries", nil), &enquiries))
	require.Len(t, enquiries, 1)
	assert.Equal(t, domain.AnonymousEmail, enquiries[0].UserEmail)
	assert.Contains(t, enquiries[0].Message, "Basketball")
	assert.Equal(t, "pending", enquiries[0].Status)
	assert.Nil(t, enquiries[0].ItemID)

	env.server.WaitForNotifications()
	msgs := env.notifier.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "Enquiry for Basketball", msgs[0].Subject)
	assert.Equal(t, []string{"store@example.com"}, msgs[0].To)
	assert.Equal(t, "noreply@itemstore.com", msgs[0].From)
}

func TestEnquirySurvivesItemDeletion(t *testing.T) {
	env := newTestEnv(t, false)

	var created itemResponse
	require.Equal(t, http.StatusOK, env.do(t, jsonRequest(t, "POST", "/api/items",
		map[string]any{"name": "Leather Watch", "type": "Accessories"}), &created))

	require.Equal(t, http.StatusOK, env.do(t, jsonRequest(t, "POST", "/api/enquire", map[string]any{
		"itemName":  "Leather Watch",
		"itemId":    created.ID,
		"userEmail": "buyer@example.com",
		"message":   "Still available?",
	}), nil))
	require.Equal(t, http.StatusOK, env.do(t, jsonRequest(t, "POST", "/api/enquire", map[string]any{
		"itemName": "Leather Watch",
		"itemId":   itoa(created.ID),
	}), nil))

	require.Equal(t, http.StatusOK, env.do(t, httptest.NewRequest("DELETE", "/api/items/"+itoa(created.ID), nil), nil))

	var enquiries []domain.EnquiryView
	require.Equal(t, http.StatusOK, env.do(t, httptest.NewRequest("GET", "/api/enquiries", nil), &enquiries))
	require.Len(t, enquiries, 2)
	for _, e := range enquiries {
		require.NotNil(t, e.ItemID)
		assert.Equal(t, created.ID, *e.ItemID)
		assert.Equal(t, "Leather Watch", e.ItemName)
		assert.Nil(t, e.CurrentItemName)
		assert.Nil(t, e.ItemType)
	}
}

func TestNotifierFailureDoesNotFailEnquiry(t *testing.T) {
	env := newTestEnv(t, false)
	env.notifier.err = errors.New("smtp unavailable")

	var resp struct {
		Success bool `json:"success"`
	}
	require.Equal(t, http.StatusOK, env.do(t, jsonRequest(t, "POST", "/api/enquire", map[string]any{"itemName": "Cap"}), &resp))
	assert.True(t, resp.Success)
	env.server.WaitForNotifications()
}

func TestEnquiryPersistenceFailure(t *testing.T) {
	env := newTestEnv(t, false)
	require.NoError(t, env.store.Close())

	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	status := env.do(t, jsonRequest(t, "POST", "/api/enquire", map[string]any{"itemName": "Cap"}), &resp)

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.False(t, resp.Success)
	assert.Equal(t, "Failed to submit enquiry. Please try again.", resp.Message)
	env.server.WaitForNotifications()
	assert.Empty(t, env.notifier.messages())
}

func TestStoreFailureIsShortServerError(t *testing.T) {
	env := newTestEnv(t, false)
	require.NoError(t, env.store.Close())

	var body map[string]any
	status := env.do(t, httptest.NewRequest("GET", "/api/items", nil), &body)

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Failed to retrieve items", body["error"])
	assert.NotContains(t, body, "details")
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, false)

	var health struct {
		Status    string `json:"status"`
		Timestamp string `json:"timestamp"`
		Database  string `json:"database"`
	}
	require.Equal(t, http.StatusOK, env.do(t, httptest.NewRequest("GET", "/api/health", nil), &health))
	assert.Equal(t, "OK", health.Status)
	assert.Equal(t, "Connected", health.Database)
	assert.NotEmpty(t, health.Timestamp)

	require.NoError(t, env.store.Close())
	require.Equal(t, http.StatusOK, env.do(t, httptest.NewRequest("GET", "/api/health", nil), &health))
	assert.Equal(t, "DEGRADED", health.Status)
	assert.Equal(t, "Disconnected", health.Database)
}

type brokerPublisher struct {
	healthy bool
}

func (p *brokerPublisher) Publish(context.Context, string, *events.Event, events.Headers) error {
	return nil
}

func (p *brokerPublisher) Close() error { return nil }

func (p *brokerPublisher) IsHealthy() bool { return p.healthy }

func TestHealthReportsBrokerWhenPublisherConfigured(t *testing.T) {
	publisher := &brokerPublisher{healthy: true}
	srv := New(Dependencies{
		Config:    &config.AppConfig{ServiceName: "catalog"},
		Store:     databasetest.NewStore(t, false),
		Notifier:  &recordingNotifier{},
		Publisher: publisher,
	})

	var health struct {
		Status string `json:"status"`
		Broker string `json:"broker"`
	}
	env := &testEnv{server: srv}
	require.Equal(t, http.StatusOK, env.do(t, httptest.NewRequest("GET", "/api/health", nil), &health))
	assert.Equal(t, "OK", health.Status)
	assert.Equal(t, "Connected", health.Broker)

	publisher.healthy = false
	require.Equal(t, http.StatusOK, env.do(t, httptest.NewRequest("GET", "/api/health", nil), &health))
	assert.Equal(t, "DEGRADED", health.Status)
	assert.Equal(t, "Disconnected", health.Broker)
}

func TestUnknownRouteUsesErrorShape(t *testing.T) {
	env := newTestEnv(t, false)

	var body errorResponse
	status := env.do(t, httptest.NewRequest("GET", "/api/nothing", nil), &body)

	assert.Equal(t, http.StatusNotFound, status)
	assert.NotEmpty(t, body.Error)
}

func TestShutdownWaitsForNotifications(t *testing.T) {
	env := newTestEnv(t, false)

	require.Equal(t, http.StatusOK, env.do(t, jsonRequest(t, "POST", "/api/enquire", map[string]any{"itemName": "Cap"}), nil))
	require.NoError(t, env.server.Shutdown(context.Background()))
	assert.Len(t, env.notifier.messages(), 1)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
