package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
)

func TestDocumentService_List(t *testing.T) {
	backend := &mockBackend{documents: []domain.DocumentInfo{
		{ID: "doc-1", Filename: "report.pdf", NumChunks: 12},
	}}
	svc := NewDocumentService(backend)

	docs, err := svc.List(context.Background())

	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "report.pdf", docs[0].Filename)
}

func TestDocumentService_ListFailure(t *testing.T) {
	backend := &mockBackend{docsErr: errors.New("connection refused")}
	svc := NewDocumentService(backend)

	_, err := svc.List(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "listing documents")
}

func TestDocumentService_Upload(t *testing.T) {
	backend := &mockBackend{uploadDoc: domain.DocumentInfo{Filename: "notes.txt", NumChunks: 3}}
	svc := NewDocumentService(backend)

	doc, err := svc.Upload(context.Background(), "/tmp/notes.txt")

	require.NoError(t, err)
	assert.Equal(t, "/tmp/notes.txt", backend.uploadPath)
	assert.Equal(t, 3, doc.NumChunks)
}

func TestDocumentService_UploadFailure(t *testing.T) {
	backend := &mockBackend{uploadErr: domain.ErrUploadTooLarge}
	svc := NewDocumentService(backend)

	_, err := svc.Upload(context.Background(), "/tmp/huge.bin")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUploadTooLarge)
}

func TestDocumentService_Remove(t *testing.T) {
	backend := &mockBackend{}
	svc := NewDocumentService(backend)

	require.NoError(t, svc.Remove(context.Background(), "doc-1"))
}

func TestDocumentService_RemoveFailure(t *testing.T) {
	backend := &mockBackend{deleteErr: errors.New("backend unavailable")}
	svc := NewDocumentService(backend)

	err := svc.Remove(context.Background(), "doc-1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "deleting document doc-1")
}
