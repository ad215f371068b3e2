package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"sync"
)

// MockS3Service is an in-memory S3Interface for tests. Objects live in a map
// keyed the same way the real service keys them.
type MockS3Service struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// NewMockS3Service creates an empty in-memory store
func NewMockS3Service() *MockS3Service {
	return &MockS3Service{objects: make(map[string][]byte)}
}

// SetAsMockForTesting installs this mock as the package S3 instance
func (m *MockS3Service) SetAsMockForTesting() {
	SetS3Service(m)
}

// UploadFile stores the file content under a deterministic mock key
func (m *MockS3Service) UploadFile(fileHeader *multipart.FileHeader) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	s3Key := fmt.Sprintf("order-media/mock_%s", fileHeader.Filename)

	m.mu.Lock()
	m.objects[s3Key] = content
	m.mu.Unlock()

	return s3Key, nil
}

// GetPresignedURL returns a fake presigned URL for a stored object
func (m *MockS3Service) GetPresignedURL(s3Key string) (string, error) {
	if s3Key == "" {
		return "", nil
	}

	m.mu.RLock()
	_, exists := m.objects[s3Key]
	m.mu.RUnlock()
	if !exists {
		return "", fmt.Errorf("object not in mock storage: %s", s3Key)
	}

	return fmt.Sprintf("https://test-bucket.s3.us-east-1.amazonaws.com/%s?mock=true", s3Key), nil
}

// DeleteFile removes an object; deleting a missing or empty key is a no-op
func (m *MockS3Service) DeleteFile(s3Key string) error {
	if s3Key == "" {
		return nil
	}

	m.mu.Lock()
	delete(m.objects, s3Key)
	m.mu.Unlock()

	return nil
}

// FileExists reports whether an object is stored under the key
func (m *MockS3Service) FileExists(s3Key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.objects[s3Key]
	return exists
}

// GetUploadedFiles snapshots the stored objects for assertions
func (m *MockS3Service) GetUploadedFiles() map[string][]byte {
	m.mu.RLock()
	defer m.mu.RUnlock()

	files := make(map[string][]byte, len(m.objects))
	for k, v := range m.objects {
		files[k] = v
	}
	return files
}

// Clear drops every stored object
func (m *MockS3Service) Clear() {
	m.mu.Lock()
	m.objects = make(map[string][]byte)
	m.mu.Unlock()
}
