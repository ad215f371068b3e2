package services

import (
	"fmt"
	"mime/multipart"
	"sync"

	"github.com/kendall-kelly/maker-orders-api/utils"
)

// MockMediaService is a mock implementation of MediaService for testing
type MockMediaService struct {
	uploaded map[string][]byte // map of media key to file content
	// FailDeletes forces DeleteMedia to error, for deletion fault tests
	FailDeletes bool
	mu          sync.RWMutex
}

// NewMockMediaService creates a new mock media service
func NewMockMediaService() *MockMediaService {
	return &MockMediaService{
		uploaded: make(map[string][]byte),
	}
}

// SetAsMockForTesting sets this mock as the global media service instance for testing
func (m *MockMediaService) SetAsMockForTesting() {
	SetMediaService(m)
}

// UploadMedia simulates uploading an attachment
func (m *MockMediaService) UploadMedia(fileHeader *multipart.FileHeader) (string, error) {
	if err := utils.ValidateMediaFile(fileHeader); err != nil {
		return "", err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	content := make([]byte, fileHeader.Size)
	_, err = file.Read(content)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	mediaKey := fmt.Sprintf("order-media/mock_%s", fileHeader.Filename)

	m.mu.Lock()
	m.uploaded[mediaKey] = content
	m.mu.Unlock()

	return mediaKey, nil
}

// GetMediaURL simulates generating a URL for an attachment
func (m *MockMediaService) GetMediaURL(mediaKey string) (string, error) {
	if mediaKey == "" {
		return "", nil
	}

	m.mu.RLock()
	_, exists := m.uploaded[mediaKey]
	m.mu.RUnlock()

	if !exists {
		return "", fmt.Errorf("attachment not found in mock storage: %s", mediaKey)
	}

	return fmt.Sprintf("https://test-bucket.s3.us-east-1.amazonaws.com/%s?mock=true", mediaKey), nil
}

// DeleteMedia simulates deleting an attachment
func (m *MockMediaService) DeleteMedia(mediaKey string) error {
	if m.FailDeletes {
		return fmt.Errorf("forced delete failure for %s", mediaKey)
	}
	if mediaKey == "" {
		return nil
	}

	m.mu.Lock()
	delete(m.uploaded, mediaKey)
	m.mu.Unlock()

	return nil
}

// Put seeds an attachment directly into mock storage (for testing)
func (m *MockMediaService) Put(mediaKey string, content []byte) {
	m.mu.Lock()
	m.uploaded[mediaKey] = content
	m.mu.Unlock()
}

// MediaExists checks if an attachment exists in mock storage
func (m *MockMediaService) MediaExists(mediaKey string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.uploaded[mediaKey]
	return exists
}

// Clear removes all attachments from mock storage
func (m *MockMediaService) Clear() {
	m.mu.Lock()
	m.uploaded = make(map[string][]byte)
	m.mu.Unlock()
}
