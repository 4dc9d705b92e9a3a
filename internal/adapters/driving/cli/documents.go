package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
)

var documentsJSON bool

var documentsCmd = &cobra.Command{
	Use:   "documents",
	Short: "Manage backend documents",
	Long:  `List, upload, or delete the documents the backend answers from.`,
}

var documentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List uploaded documents",
	RunE:  runDocumentsList,
}

var documentsUploadCmd = &cobra.Command{
	Use:   "upload [file]",
	Short: "Upload a document for processing",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentsUpload,
}

var documentsRmCmd = &cobra.Command{
	Use:   "rm [document-id]",
	Short: "Delete a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentsRm,
}

func init() {
	documentsListCmd.Flags().BoolVar(&documentsJSON, "json", false, "output documents as JSON")
	documentsCmd.AddCommand(documentsListCmd)
	documentsCmd.AddCommand(documentsUploadCmd)
	documentsCmd.AddCommand(documentsRmCmd)
	rootCmd.AddCommand(documentsCmd)
}

func runDocumentsList(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	docs, err := documentService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing documents: %w", err)
	}

	if documentsJSON {
		return outputDocumentsJSON(cmd, docs)
	}

	if len(docs) == 0 {
		cmd.Println("No documents uploaded.")
		return nil
	}

	for i := range docs {
		cmd.Printf("  %s  %s (%d chunks)\n", docs[i].ID, docs[i].Filename, docs[i].NumChunks)
	}
	return nil
}

func outputDocumentsJSON(cmd *cobra.Command, docs []domain.DocumentInfo) error {
	type documentOut struct {
		ID        string `json:"id"`
		Filename  string `json:"filename"`
		NumChunks int    `json:"num_chunks"`
		FileSize  int64  `json:"file_size,omitempty"`
	}
	out := make([]documentOut, 0, len(docs))
	for i := range docs {
		out = append(out, documentOut{
			ID:        docs[i].ID,
			Filename:  docs[i].Filename,
			NumChunks: docs[i].NumChunks,
			FileSize:  docs[i].FileSize,
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal documents: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func runDocumentsUpload(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	info, err := documentService.Upload(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("uploading document: %w", err)
	}

	cmd.Printf("Uploaded %s: %d chunks indexed\n", info.Filename, info.NumChunks)
	return nil
}

func runDocumentsRm(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	if err := documentService.Remove(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}

	cmd.Printf("Deleted document %s\n", args[0])
	return nil
}
