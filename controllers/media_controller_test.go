package controllers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kendall-kelly/maker-orders-api/models"
	"github.com/kendall-kelly/maker-orders-api/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildUploadRequest creates a multipart request with one file and optional
// extra form fields
func buildUploadRequest(t *testing.T, url, filename string, content []byte, fields map[string]string) *http.Request {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if filename != "" {
		part, err := writer.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	require.NoError(t, writer.Close())

	req, _ := http.NewRequest(http.MethodPost, url, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestUploadOrderMedia(t *testing.T) {
	f := setupOrderFixture(t)

	mock := services.NewMockMediaService()
	mock.SetAsMockForTesting()
	defer services.SetMediaService(nil)

	f.createOrder(t, "3001", f.manufacturer1.ID, models.RoutedToAdmin, models.ProductStatusPending, models.OrderProduct{})

	tests := []struct {
		name           string
		auth0ID        string
		role           string
		filename       string
		content        []byte
		fields         map[string]string
		expectedStatus int
		expectedCode   string
		checkResponse  func(t *testing.T, response map[string]interface{})
	}{
		{
			name:           "Upload order-level attachment",
			auth0ID:        f.adminUser.Auth0ID,
			role:           "admin",
			filename:       "spec-sheet.pdf",
			content:        []byte("%PDF-fake"),
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, response map[string]interface{}) {
				data := response["data"].(map[string]interface{})
				assert.Equal(t, "spec-sheet.pdf", data["file_name"])
				assert.Nil(t, data["order_product_id"])
				assert.NotEmpty(t, data["url"])
				assert.True(t, mock.MediaExists(data["s3_key"].(string)))
			},
		},
		{
			name:           "Upload line-level attachment",
			auth0ID:        f.adminUser.Auth0ID,
			role:           "admin",
			filename:       "sample-photo.jpg",
			content:        []byte("jpeg bytes"),
			fields:         map[string]string{"order_product_id": "1"},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, response map[string]interface{}) {
				data := response["data"].(map[string]interface{})
				assert.Equal(t, float64(1), data["order_product_id"])
			},
		},
		{
			name:           "Fail with no file",
			auth0ID:        f.adminUser.Auth0ID,
			role:           "admin",
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "MISSING_FILE",
		},
		{
			name:           "Fail with unsupported format",
			auth0ID:        f.adminUser.Auth0ID,
			role:           "admin",
			filename:       "virus.exe",
			content:        []byte("nope"),
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "INVALID_FILE_FORMAT",
		},
		{
			name:           "Fail with unknown line id",
			auth0ID:        f.adminUser.Auth0ID,
			role:           "admin",
			filename:       "notes.pdf",
			content:        []byte("%PDF-fake"),
			fields:         map[string]string{"order_product_id": "999"},
			expectedStatus: http.StatusNotFound,
			expectedCode:   "PRODUCT_NOT_FOUND",
		},
		{
			name:           "Fail with non-numeric line id",
			auth0ID:        f.adminUser.Auth0ID,
			role:           "admin",
			filename:       "notes.pdf",
			content:        []byte("%PDF-fake"),
			fields:         map[string]string{"order_product_id": "first"},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "VALIDATION_ERROR",
		},
		{
			name:           "Other manufacturer cannot attach",
			auth0ID:        f.makerUser2.Auth0ID,
			role:           "manufacturer",
			filename:       "notes.pdf",
			content:        []byte("%PDF-fake"),
			expectedStatus: http.StatusForbidden,
			expectedCode:   "FORBIDDEN",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupTestRouter()
			router.POST("/orders/:id/media", mockAuthMiddleware(tt.auth0ID, tt.role), UploadOrderMedia)

			req := buildUploadRequest(t, "/orders/1/media", tt.filename, tt.content, tt.fields)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var response map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

			if tt.expectedCode != "" {
				assert.False(t, response["success"].(bool))
				errorData := response["error"].(map[string]interface{})
				assert.Equal(t, tt.expectedCode, errorData["code"])
			}
			if tt.checkResponse != nil {
				tt.checkResponse(t, response)
			}
		})
	}
}

func TestUploadOrderMedia_StorageNotConfigured(t *testing.T) {
	f := setupOrderFixture(t)
	services.SetMediaService(nil)

	f.createOrder(t, "3001", f.manufacturer1.ID, models.RoutedToAdmin, models.ProductStatusPending, models.OrderProduct{})

	router := setupTestRouter()
	router.POST("/orders/:id/media", mockAuthMiddleware(f.adminUser.Auth0ID, "admin"), UploadOrderMedia)

	req := buildUploadRequest(t, "/orders/1/media", "notes.pdf", []byte("%PDF-fake"), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	errorData := response["error"].(map[string]interface{})
	assert.Equal(t, "STORAGE_UNAVAILABLE", errorData["code"])
}

func TestListOrderMedia(t *testing.T) {
	f := setupOrderFixture(t)

	mock := services.NewMockMediaService()
	mock.SetAsMockForTesting()
	defer services.SetMediaService(nil)

	order := f.createOrder(t, "3001", f.manufacturer1.ID, models.RoutedToAdmin, models.ProductStatusPending, models.OrderProduct{})
	otherOrder := f.createOrder(t, "3002", f.manufacturer1.ID, models.RoutedToAdmin, models.ProductStatusPending, models.OrderProduct{})

	mock.Put("order-media/one.pdf", []byte("one"))
	mock.Put("order-media/two.jpg", []byte("two"))

	for _, media := range []models.OrderMedia{
		{OrderID: order.ID, S3Key: "order-media/one.pdf", FileName: "one.pdf", UploadedByID: f.adminUser.ID},
		{OrderID: order.ID, S3Key: "order-media/two.jpg", FileName: "two.jpg", UploadedByID: f.adminUser.ID},
		{OrderID: otherOrder.ID, S3Key: "order-media/other.pdf", FileName: "other.pdf", UploadedByID: f.adminUser.ID},
	} {
		require.NoError(t, f.db.Create(&media).Error)
	}

	router := setupTestRouter()
	router.GET("/orders/:id/media", mockAuthMiddleware(f.adminUser.Auth0ID, "admin"), ListOrderMedia)

	req, _ := http.NewRequest(http.MethodGet, "/orders/1/media", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(t, response["success"].(bool))

	data := response["data"].([]interface{})
	require.Len(t, data, 2, "Only the requested order's attachments are listed")

	for _, item := range data {
		media := item.(map[string]interface{})
		assert.Contains(t, media["url"], "mock=true", "Attachments carry presigned URLs")
	}
}
