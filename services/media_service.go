package services

import (
	"fmt"
	"mime/multipart"

	"github.com/kendall-kelly/maker-orders-api/utils"
)

// MediaService handles order attachment operations: upload, retrieval URL
// generation, and deletion
type MediaService interface {
	// UploadMedia validates and uploads an attachment, returns the storage key
	UploadMedia(fileHeader *multipart.FileHeader) (string, error)

	// GetMediaURL generates a URL for accessing an uploaded attachment
	GetMediaURL(mediaKey string) (string, error)

	// DeleteMedia removes an attachment from storage
	DeleteMedia(mediaKey string) error
}

// S3MediaService implements MediaService using AWS S3 for storage
type S3MediaService struct {
	s3Service S3Interface
}

var mediaServiceInstance MediaService

// InitMediaService initializes the media service with S3 backend
func InitMediaService(s3Service S3Interface) MediaService {
	mediaServiceInstance = &S3MediaService{
		s3Service: s3Service,
	}
	return mediaServiceInstance
}

// GetMediaService returns the initialized media service instance
func GetMediaService() MediaService {
	return mediaServiceInstance
}

// SetMediaService sets the media service instance (primarily for testing)
func SetMediaService(service MediaService) {
	mediaServiceInstance = service
}

// UploadMedia validates and uploads an attachment to S3
func (s *S3MediaService) UploadMedia(fileHeader *multipart.FileHeader) (string, error) {
	if err := utils.ValidateMediaFile(fileHeader); err != nil {
		return "", err
	}

	s3Key, err := s.s3Service.UploadFile(fileHeader)
	if err != nil {
		return "", fmt.Errorf("failed to upload attachment: %w", err)
	}

	return s3Key, nil
}

// GetMediaURL generates a presigned URL for accessing an attachment
func (s *S3MediaService) GetMediaURL(mediaKey string) (string, error) {
	if mediaKey == "" {
		return "", nil
	}

	url, err := s.s3Service.GetPresignedURL(mediaKey)
	if err != nil {
		return "", fmt.Errorf("failed to generate attachment URL: %w", err)
	}

	return url, nil
}

// DeleteMedia deletes an attachment from S3
func (s *S3MediaService) DeleteMedia(mediaKey string) error {
	if mediaKey == "" {
		return nil
	}

	if err := s.s3Service.DeleteFile(mediaKey); err != nil {
		return fmt.Errorf("failed to delete attachment: %w", err)
	}

	return nil
}
