package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
)

func TestDocumentsListCmd_PrintsDocuments(t *testing.T) {
	mocks := setupTestServices(t)
	mocks.documents.docs = []domain.DocumentInfo{
		{ID: "doc-1", Filename: "report.pdf", NumChunks: 12},
	}

	out, err := execute(t, "documents", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "doc-1  report.pdf (12 chunks)")
}

func TestDocumentsListCmd_JSON(t *testing.T) {
	mocks := setupTestServices(t)
	mocks.documents.docs = []domain.DocumentInfo{
		{ID: "doc-1", Filename: "report.pdf", NumChunks: 12, FileSize: 2048},
	}
	t.Cleanup(func() { documentsJSON = false })

	out, err := execute(t, "documents", "list", "--json")

	require.NoError(t, err)
	assert.Contains(t, out, `"id": "doc-1"`)
	assert.Contains(t, out, `"filename": "report.pdf"`)
	assert.Contains(t, out, `"num_chunks": 12`)
	assert.Contains(t, out, `"file_size": 2048`)
}

func TestDocumentsListCmd_Empty(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "documents", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "No documents uploaded.")
}

func TestDocumentsUploadCmd_Uploads(t *testing.T) {
	mocks := setupTestServices(t)
	mocks.documents.uploaded = domain.DocumentInfo{Filename: "notes.txt", NumChunks: 3}

	out, err := execute(t, "documents", "upload", "/tmp/notes.txt")

	require.NoError(t, err)
	assert.Equal(t, "/tmp/notes.txt", mocks.documents.uploadPath)
	assert.Contains(t, out, "Uploaded notes.txt: 3 chunks indexed")
}

func TestDocumentsUploadCmd_Failure(t *testing.T) {
	mocks := setupTestServices(t)
	mocks.documents.uploadErr = errors.New("file too large")

	_, err := execute(t, "documents", "upload", "/tmp/huge.bin")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "uploading document")
}

func TestDocumentsRmCmd_Deletes(t *testing.T) {
	mocks := setupTestServices(t)

	out, err := execute(t, "documents", "rm", "doc-1")

	require.NoError(t, err)
	assert.Equal(t, "doc-1", mocks.documents.removedID)
	assert.Contains(t, out, "Deleted document doc-1")
}
