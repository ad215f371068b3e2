package services

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kendall-kelly/maker-orders-api/config"
)

// Auth0UserInfo is the subset of the /userinfo payload we persist
type Auth0UserInfo struct {
	Sub   string `json:"sub"` // Auth0 user ID
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Auth0Service calls the Auth0 tenant's API on behalf of a user token
type Auth0Service struct {
	domain     string
	httpClient *http.Client
}

// NewAuth0Service creates a new Auth0 service instance
func NewAuth0Service(cfg *config.Config) *Auth0Service {
	return &Auth0Service{
		domain:     cfg.Auth0Domain,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// userinfoURL builds the /userinfo endpoint URL. A domain that already
// carries a scheme is used as-is so tests can point at an httptest server.
func (s *Auth0Service) userinfoURL() string {
	if strings.HasPrefix(s.domain, "http://") || strings.HasPrefix(s.domain, "https://") {
		return s.domain + "/userinfo"
	}
	return "https://" + s.domain + "/userinfo"
}

// GetUserInfo fetches the profile behind an access token from Auth0
func (s *Auth0Service) GetUserInfo(accessToken string) (*Auth0UserInfo, error) {
	req, err := http.NewRequest(http.MethodGet, s.userinfoURL(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Add("Authorization", "Bearer "+accessToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call userinfo endpoint: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("userinfo endpoint returned status %d: %s", resp.StatusCode, string(body))
	}

	var userInfo Auth0UserInfo
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		return nil, fmt.Errorf("failed to decode userinfo response: %w", err)
	}
	return &userInfo, nil
}
