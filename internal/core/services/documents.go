package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driving"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService manages documents living on the backend.
type DocumentService struct {
	backend driven.BackendClient
}

// NewDocumentService creates a document service over the backend client.
func NewDocumentService(backend driven.BackendClient) *DocumentService {
	return &DocumentService{backend: backend}
}

// List returns the documents known to the backend.
func (s *DocumentService) List(ctx context.Context) ([]domain.DocumentInfo, error) {
	docs, err := s.backend.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	return docs, nil
}

// Upload sends a local file to the backend for processing.
func (s *DocumentService) Upload(ctx context.Context, path string) (domain.DocumentInfo, error) {
	doc, err := s.backend.UploadDocument(ctx, path)
	if err != nil {
		return domain.DocumentInfo{}, fmt.Errorf("uploading %s: %w", path, err)
	}
	return doc, nil
}

// Remove deletes a document on the backend.
func (s *DocumentService) Remove(ctx context.Context, id string) error {
	if err := s.backend.DeleteDocument(ctx, id); err != nil {
		return fmt.Errorf("deleting document %s: %w", id, err)
	}
	return nil
}
