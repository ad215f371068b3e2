package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/maker-orders-api/config"
	"github.com/kendall-kelly/maker-orders-api/middleware"
	"github.com/kendall-kelly/maker-orders-api/models"
	"github.com/kendall-kelly/maker-orders-api/services"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	// Auto-migrate the User model
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	return router
}

// setupMockAuth0Server creates a mock HTTP server that simulates Auth0's /userinfo endpoint
func setupMockAuth0Server(userInfoMap map[string]*services.Auth0UserInfo) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/userinfo" {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		// Extract token from Authorization header
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" || len(authHeader) < 7 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		token := authHeader[7:] // Remove "Bearer " prefix

		// Look up user info by token
		userInfo, exists := userInfoMap[token]
		if !exists {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(userInfo)
	}))
}

// mockAuthMiddleware simulates the Auth0 JWT middleware for testing
// It sets up the context exactly as the real EnsureValidToken middleware does
func mockAuthMiddleware(auth0ID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Set the user_id (Auth0 ID from 'sub' claim)
		c.Set("user_id", auth0ID)

		// Create custom claims matching the real structure (only role, no email/name)
		customClaims := &middleware.CustomClaims{
			Role: role,
		}

		// Create a proper ValidatedClaims structure
		// This matches what the real JWT middleware creates
		mockClaims := &validator.ValidatedClaims{
			CustomClaims: customClaims,
		}

		// Store in context the same way the real middleware does
		c.Set("validated_claims", mockClaims)

		c.Next()
	}
}

func TestCreateUser(t *testing.T) {
	// Setup
	db := setupTestDB(t)
	config.SetDB(db)

	// Mock Auth0 userinfo responses keyed by access token
	userInfoMap := map[string]*services.Auth0UserInfo{
		"token-admin": {
			Sub:   "auth0|admin1",
			Email: "admin@example.com",
			Name:  "Admin User",
		},
		"token-maker": {
			Sub:   "auth0|maker1",
			Email: "maker@example.com",
			Name:  "Maker User",
		},
		"token-client": {
			Sub:   "auth0|client1",
			Email: "client@example.com",
			Name:  "Client User",
		},
		"token-no-email": {
			Sub:  "auth0|noemail",
			Name: "No Email",
		},
		"token-no-name": {
			Sub:   "auth0|noname",
			Email: "noname@example.com",
		},
	}
	auth0Server := setupMockAuth0Server(userInfoMap)
	defer auth0Server.Close()

	config.SetConfig(&config.Config{
		DatabaseURL: "sqlite::memory:",
		GoEnv:       "test",
		Auth0Domain: auth0Server.URL,
	})

	tests := []struct {
		name           string
		auth0ID        string
		role           string
		accessToken    string
		expectedStatus int
		expectedCode   string
		checkResponse  func(t *testing.T, response map[string]interface{})
	}{
		{
			name:           "Create admin user from role claim",
			auth0ID:        "auth0|admin1",
			role:           "admin",
			accessToken:    "token-admin",
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, response map[string]interface{}) {
				assert.True(t, response["success"].(bool))
				data := response["data"].(map[string]interface{})
				assert.Equal(t, "admin@example.com", data["email"])
				assert.Equal(t, "Admin User", data["name"])
				assert.Equal(t, "admin", data["role"])
			},
		},
		{
			name:           "Create manufacturer user from role claim",
			auth0ID:        "auth0|maker1",
			role:           "manufacturer",
			accessToken:    "token-maker",
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, response map[string]interface{}) {
				data := response["data"].(map[string]interface{})
				assert.Equal(t, "manufacturer", data["role"])
				// Company link is assigned by an admin afterwards
				assert.Nil(t, data["manufacturer_id"])
			},
		},
		{
			name:           "Unknown role claim defaults to client",
			auth0ID:        "auth0|client1",
			role:           "superuser",
			accessToken:    "token-client",
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, response map[string]interface{}) {
				data := response["data"].(map[string]interface{})
				assert.Equal(t, "client", data["role"])
			},
		},
		{
			name:           "Fail on duplicate Auth0 ID",
			auth0ID:        "auth0|admin1",
			role:           "admin",
			accessToken:    "token-admin",
			expectedStatus: http.StatusConflict,
			expectedCode:   "USER_EXISTS",
		},
		{
			name:           "Fail when Auth0 returns no email",
			auth0ID:        "auth0|noemail",
			role:           "client",
			accessToken:    "token-no-email",
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "MISSING_EMAIL",
		},
		{
			name:           "Fail when Auth0 returns no name",
			auth0ID:        "auth0|noname",
			role:           "client",
			accessToken:    "token-no-name",
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "MISSING_NAME",
		},
		{
			name:           "Fail with unknown access token",
			auth0ID:        "auth0|stranger",
			role:           "client",
			accessToken:    "token-bogus",
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   "AUTH0_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup router
			router := setupTestRouter()
			router.POST("/users",
				mockAuthMiddleware(tt.auth0ID, tt.role),
				CreateUser,
			)

			// Create request
			req, _ := http.NewRequest(http.MethodPost, "/users", nil)
			req.Header.Set("Authorization", "Bearer "+tt.accessToken)

			// Execute request
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			// Assert status code
			assert.Equal(t, tt.expectedStatus, w.Code)

			// Parse response
			var response map[string]interface{}
			err := json.Unmarshal(w.Body.Bytes(), &response)
			assert.NoError(t, err)

			// Check for expected error
			if tt.expectedCode != "" {
				assert.False(t, response["success"].(bool))
				errorData := response["error"].(map[string]interface{})
				assert.Equal(t, tt.expectedCode, errorData["code"])
			}

			// Run custom response checks if provided
			if tt.checkResponse != nil {
				tt.checkResponse(t, response)
			}
		})
	}
}

func TestCreateUser_MissingAuthorizationHeader(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	router := setupTestRouter()
	router.POST("/users",
		mockAuthMiddleware("auth0|someone", "client"),
		CreateUser,
	)

	// No Authorization header at all
	req, _ := http.NewRequest(http.MethodPost, "/users", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.False(t, response["success"].(bool))

	errorData := response["error"].(map[string]interface{})
	assert.Equal(t, "MISSING_TOKEN", errorData["code"])
}

func TestGetMyProfile(t *testing.T) {
	// Setup
	db := setupTestDB(t)
	config.SetDB(db)

	user := models.User{
		Auth0ID: "auth0|profile1",
		Name:    "Profile User",
		Email:   "profile@example.com",
		Role:    "manufacturer",
	}
	db.Create(&user)

	tests := []struct {
		name           string
		auth0ID        string
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "Get own profile successfully",
			auth0ID:        user.Auth0ID,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Fail with no profile row",
			auth0ID:        "auth0|nonexistent",
			expectedStatus: http.StatusNotFound,
			expectedCode:   "USER_NOT_FOUND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupTestRouter()
			router.GET("/users/me",
				mockAuthMiddleware(tt.auth0ID, "manufacturer"),
				GetMyProfile,
			)

			req, _ := http.NewRequest(http.MethodGet, "/users/me", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var response map[string]interface{}
			err := json.Unmarshal(w.Body.Bytes(), &response)
			assert.NoError(t, err)

			if tt.expectedCode != "" {
				errorData := response["error"].(map[string]interface{})
				assert.Equal(t, tt.expectedCode, errorData["code"])
				return
			}

			assert.True(t, response["success"].(bool))
			data := response["data"].(map[string]interface{})
			assert.Equal(t, user.Email, data["email"])
			assert.Equal(t, user.Role, data["role"])
		})
	}
}

func TestUpdateMyProfile(t *testing.T) {
	// Setup
	db := setupTestDB(t)
	config.SetDB(db)

	user := models.User{
		Auth0ID: "auth0|update1",
		Name:    "Before Update",
		Email:   "before@example.com",
		Role:    "client",
	}
	db.Create(&user)

	other := models.User{
		Auth0ID: "auth0|update2",
		Name:    "Other User",
		Email:   "taken@example.com",
		Role:    "client",
	}
	db.Create(&other)

	tests := []struct {
		name           string
		requestBody    map[string]interface{}
		expectedStatus int
		expectedCode   string
		checkResponse  func(t *testing.T, response map[string]interface{})
	}{
		{
			name: "Update name and email",
			requestBody: map[string]interface{}{
				"name":  "After Update",
				"email": "after@example.com",
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, response map[string]interface{}) {
				data := response["data"].(map[string]interface{})
				assert.Equal(t, "After Update", data["name"])
				assert.Equal(t, "after@example.com", data["email"])
				// Role never changes through this endpoint
				assert.Equal(t, "client", data["role"])
			},
		},
		{
			name:           "Empty body is a no-op",
			requestBody:    map[string]interface{}{},
			expectedStatus: http.StatusOK,
		},
		{
			name: "Fail with invalid email",
			requestBody: map[string]interface{}{
				"email": "not-an-email",
			},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "VALIDATION_ERROR",
		},
		{
			name: "Fail with email already taken",
			requestBody: map[string]interface{}{
				"email": "taken@example.com",
			},
			expectedStatus: http.StatusConflict,
			expectedCode:   "EMAIL_EXISTS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupTestRouter()
			router.PUT("/users/me",
				mockAuthMiddleware(user.Auth0ID, "client"),
				UpdateMyProfile,
			)

			body, _ := json.Marshal(tt.requestBody)
			req, _ := http.NewRequest(http.MethodPut, "/users/me", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var response map[string]interface{}
			err := json.Unmarshal(w.Body.Bytes(), &response)
			assert.NoError(t, err)

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
