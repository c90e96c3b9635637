package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mytheresa/go-catalog/app/api"
	"github.com/mytheresa/go-catalog/app/events"
	"github.com/mytheresa/go-catalog/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleCreate(t *testing.T) {
	testCases := []struct {
		name               string
		body               string
		mockRepoSetup      func() *MockProductRepo
		expectedStatusCode int
		checkResponse      func(t *testing.T, rec *httptest.ResponseRecorder)
		checkPublished     func(t *testing.T, pub *MockPublisher)
	}{
		{
			name: "Creates product and returns it with its category name",
			body: `{"name":"Trail","description":"Trail shoe","brand":"Salomon","price":"129.90","category_id":1}`,
			mockRepoSetup: func() *MockProductRepo {
				return &MockProductRepo{Categories: []models.Category{*shoes}}
			},
			expectedStatusCode: http.StatusCreated,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var resp api.Item[api.Product]
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
				assert.Equal(t, api.KindItem, resp.Type)
				assert.Equal(t, uint(101), resp.Data.ID)
				assert.Equal(t, "Trail", resp.Data.Name)
				assert.True(t, decimal.RequireFromString("129.90").Equal(resp.Data.Price))
				require.NotNil(t, resp.Data.CategoryID)
				assert.Equal(t, uint(1), *resp.Data.CategoryID)
			},
			checkPublished: func(t *testing.T, pub *MockPublisher) {
				require.Len(t, pub.Published, 1)
				assert.Equal(t, events.ProductCreated, pub.Published[0].Type)
				assert.Equal(t, uint(101), pub.Published[0].ID)
			},
		},
		{
			name: "Category is optional",
			body: `{"name":"Cap","description":"Plain cap","brand":"Puma","price":10}`,
			mockRepoSetup: func() *MockProductRepo {
				return &MockProductRepo{}
			},
			expectedStatusCode: http.StatusCreated,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var resp api.Item[api.Product]
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
				assert.Nil(t, resp.Data.CategoryID)
			},
		},
		{
			name: "Malformed JSON",
			body: `{"name":`,
			mockRepoSetup: func() *MockProductRepo {
				return &MockProductRepo{}
			},
			expectedStatusCode: http.StatusBadRequest,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				errResp := decodeError(t, rec)
				assert.Equal(t, "Invalid JSON body", errResp.Error.Message)
			},
			checkPublished: func(t *testing.T, pub *MockPublisher) {
				assert.Empty(t, pub.Published)
			},
		},
		{
			name: "Missing name fails validation",
			body: `{"description":"Trail shoe","brand":"Salomon","price":"129.90"}`,
			mockRepoSetup: func() *MockProductRepo {
				return &MockProductRepo{}
			},
			expectedStatusCode: http.StatusBadRequest,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				errResp := decodeError(t, rec)
				assert.Equal(t, api.CodeInvalidRequest, errResp.Error.Code)
				assert.Equal(t, "name", errResp.Error.Field)
				assert.Equal(t, "name is required", errResp.Error.Message)
			},
		},
		{
			name: "Negative price fails validation",
			body: `{"name":"Trail","description":"Trail shoe","brand":"Salomon","price":"-1"}`,
			mockRepoSetup: func() *MockProductRepo {
				return &MockProductRepo{}
			},
			expectedStatusCode: http.StatusBadRequest,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				errResp := decodeError(t, rec)
				assert.Equal(t, "price", errResp.Error.Field)
			},
		},
		{
			name: "Unknown category",
			body: `{"name":"Trail","description":"Trail shoe","brand":"Salomon","price":"129.90","category_id":9}`,
			mockRepoSetup: func() *MockProductRepo {
				return &MockProductRepo{WriteErr: models.ErrCategoryNotFound}
			},
			expectedStatusCode: http.StatusBadRequest,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				errResp := decodeError(t, rec)
				assert.Equal(t, "category_id", errResp.Error.Field)
				assert.Equal(t, "Category does not exist", errResp.Error.Message)
			},
		},
		{
			name: "Repository failure is not leaked",
			body: `{"name":"Trail","description":"Trail shoe","brand":"Salomon","price":"129.90"}`,
			mockRepoSetup: func() *MockProductRepo {
				return &MockProductRepo{WriteErr: errors.New("pq: connection refused")}
			},
			expectedStatusCode: http.StatusInternalServerError,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				errResp := decodeError(t, rec)
				assert.Equal(t, "An internal error occurred", errResp.Error.Message)
			},
			checkPublished: func(t *testing.T, pub *MockPublisher) {
				assert.Empty(t, pub.Published)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			mockRepo := tc.mockRepoSetup()
			pub := &MockPublisher{}
			handler := NewCatalogHandler(mockRepo, pub, 0)
			req := httptest.NewRequest("POST", "/api/list", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()

			// Act
			handler.HandleCreate(rec, req)

			// Assert
			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			if tc.checkResponse != nil {
				tc.checkResponse(t, rec)
			}
			if tc.checkPublished != nil {
				tc.checkPublished(t, pub)
			}
		})
	}
}

func TestHandleCreate_PublishFailureStillSucceeds(t *testing.T) {
	// Arrange
	mockRepo := &MockProductRepo{}
	pub := &MockPublisher{Err: errors.New("broker unavailable")}
	handler := NewCatalogHandler(mockRepo, pub, 0)
	body := `{"name":"Trail","description":"Trail shoe","brand":"Salomon","price":"129.90"}`
	req := httptest.NewRequest("POST", "/api/list", strings.NewReader(body))
	rec := httptest.NewRecorder()

	// Act
	handler.HandleCreate(rec, req)

	// Assert
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Len(t, pub.Published, 1)
	assert.Len(t, mockRepo.SourceProducts, 1)
}

func TestHandleUpdate(t *testing.T) {
	validBody := `{"name":"Runner v2","description":"Updated runner","brand":"Nike","price":"24.99","category_id":1}`

	testCases := []struct {
		name               string
		productID          string
		body               string
		writeErr           error
		expectedStatusCode int
		checkResponse      func(t *testing.T, rec *httptest.ResponseRecorder)
		checkRepoCalls     func(t *testing.T, repo *MockProductRepo, pub *MockPublisher)
	}{
		{
			name:               "Updates an existing product",
			productID:          "1",
			body:               validBody,
			expectedStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var resp api.Item[api.Product]
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
				assert.Equal(t, api.KindItem, resp.Type)
				assert.Equal(t, uint(1), resp.Data.ID)
				assert.Equal(t, "Runner v2", resp.Data.Name)
				assert.Equal(t, "Updated runner", resp.Data.Description)
			},
			checkRepoCalls: func(t *testing.T, repo *MockProductRepo, pub *MockPublisher) {
				require.NotNil(t, repo.lastSaved)
				assert.Equal(t, uint(1), repo.lastSaved.ID)
				require.Len(t, pub.Published, 1)
				assert.Equal(t, events.ProductUpdated, pub.Published[0].Type)
			},
		},
		{
			name:               "Unknown product",
			productID:          "999",
			body:               validBody,
			expectedStatusCode: http.StatusNotFound,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				errResp := decodeError(t, rec)
				assert.Equal(t, "Product not found", errResp.Error.Message)
			},
			checkRepoCalls: func(t *testing.T, _ *MockProductRepo, pub *MockPublisher) {
				assert.Empty(t, pub.Published)
			},
		},
		{
			name:               "Invalid product id",
			productID:          "abc",
			body:               validBody,
			expectedStatusCode: http.StatusNotFound,
			checkRepoCalls: func(t *testing.T, repo *MockProductRepo, _ *MockPublisher) {
				assert.Nil(t, repo.lastSaved, "Repository should not be called")
			},
		},
		{
			name:               "Validation failure",
			productID:          "1",
			body:               `{"name":"","description":"x","brand":"y","price":"1"}`,
			expectedStatusCode: http.StatusBadRequest,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				errResp := decodeError(t, rec)
				assert.Equal(t, "name", errResp.Error.Field)
			},
		},
		{
			name:               "Unknown category",
			productID:          "1",
			body:               validBody,
			writeErr:           models.ErrCategoryNotFound,
			expectedStatusCode: http.StatusBadRequest,
		},
		{
			name:               "Repository failure",
			productID:          "1",
			body:               validBody,
			writeErr:           errors.New("deadlock detected"),
			expectedStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			mockRepo := &MockProductRepo{
				SourceProducts: testCatalog(),
				Categories:     []models.Category{*shoes, *clothing},
				WriteErr:       tc.writeErr,
			}
			pub := &MockPublisher{}
			handler := NewCatalogHandler(mockRepo, pub, 0)
			req := httptest.NewRequest("PUT", "/api/list/"+tc.productID, strings.NewReader(tc.body))
			req.SetPathValue("product_id", tc.productID)
			rec := httptest.NewRecorder()

			// Act
			handler.HandleUpdate(rec, req)

			// Assert
			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			if tc.checkResponse != nil {
				tc.checkResponse(t, rec)
			}
			if tc.checkRepoCalls != nil {
				tc.checkRepoCalls(t, mockRepo, pub)
			}
		})
	}
}
