package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"auction-tracker/internal/auctionerrors"
	model "auction-tracker/internal/models"
	"auction-tracker/services/auction/helpers"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// Test CreateItemHandler
func TestCreateItemHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockCatalogServiceInterface(ctrl)
	handler := NewCatalogHandler(mockService)

	// Initialize Gin in test mode
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/items", handler.CreateItemHandler)

	now := time.Now().UTC()

	tests := []struct {
		name           string
		requestBody    any
		mockSetup      func()
		expectedStatus int
		expectedMsg    string
	}{
		{
			name:        "success",
			requestBody: helpers.CreateItemRequest{Name: "Vintage camera", Description: "working condition"},
			mockSetup: func() {
				mockService.EXPECT().
					CreateItem("Vintage camera", "working condition").
					Return(model.Item{
						ItemID:      uuid.NewString(),
						Name:        "Vintage camera",
						Description: "working condition",
						CreatedAt:   now,
					}, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedMsg:    "item created successfully",
		},
		{
			name:           "invalid_json",
			requestBody:    `{invalid json}`,
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:           "missing_name",
			requestBody:    helpers.CreateItemRequest{Description: "no name"},
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:        "service_validation_error",
			requestBody: helpers.CreateItemRequest{Name: "x"},
			mockSetup: func() {
				mockService.EXPECT().
					CreateItem("x", "").
					Return(model.Item{}, auctionerrors.ErrValidation)
			},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request details",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			var reqBody []byte
			var err error
			switch v := tc.requestBody.(type) {
			case string:
				reqBody = []byte(v)
			default:
				reqBody, err = json.Marshal(v)
				require.NoError(t, err)
			}

			tc.mockSetup()

			req := httptest.NewRequest(http.MethodPost, "/items", bytes.NewReader(reqBody))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			require.Equal(t, tc.expectedStatus, w.Code)

			var resp map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			require.Contains(t, resp["message"], tc.expectedMsg)
		})
	}
}

// Test GetItemHandler
func TestGetItemHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockCatalogServiceInterface(ctrl)
	handler := NewCatalogHandler(mockService)

	// Initialize Gin in test mode
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/items/:item_id", handler.GetItemHandler)

	mockService.EXPECT().GetItem("item1").Return(model.Item{ItemID: "item1", Name: "Item 1"}, nil)
	req := httptest.NewRequest(http.MethodGet, "/items/item1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	mockService.EXPECT().GetItem("missing").Return(model.Item{}, auctionerrors.ErrItemNotFound)
	req = httptest.NewRequest(http.MethodGet, "/items/missing", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusNotFound, w.Code)
}

// Test CreateUserHandler
func TestCreateUserHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockCatalogServiceInterface(ctrl)
	handler := NewCatalogHandler(mockService)

	// Initialize Gin in test mode
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/users", handler.CreateUserHandler)

	mockService.EXPECT().CreateUser("alice").Return(model.User{UserID: uuid.NewString(), DisplayName: "alice"}, nil)

	body, err := json.Marshal(helpers.CreateUserRequest{DisplayName: "alice"})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	// Missing display_name fails binding before the service is called.
	req = httptest.NewRequest(http.MethodPost, "/users", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

// Test GetUserHandler
func TestGetUserHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockCatalogServiceInterface(ctrl)
	handler := NewCatalogHandler(mockService)

	// Initialize Gin in test mode
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/users/:user_id", handler.GetUserHandler)

	mockService.EXPECT().GetUser("missing").Return(model.User{}, auctionerrors.ErrUserNotFound)
	req := httptest.NewRequest(http.MethodGet, "/users/missing", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusNotFound, w.Code)
}
