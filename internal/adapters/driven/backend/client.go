package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
	"github.com/custodia-labs/docchat-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docchat-cli/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.BackendClient = (*Client)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "http://localhost:8000"
	DefaultTimeout = 30 * time.Second
)

// maxUploadSize is the client-side cap on document uploads. Larger files
// are rejected before any request is issued.
const maxUploadSize = 20 << 20

// healthProbeInterval throttles health probes. Within the window the
// last known status is returned without a request.
const healthProbeInterval = 10 * time.Second

// Config holds configuration for the backend client.
type Config struct {
	// BaseURL is the answering service base URL (default: http://localhost:8000).
	BaseURL string

	// Timeout is the request timeout for non-streaming calls (default: 30s).
	Timeout time.Duration
}

// Client talks to the answering service over HTTP.
type Client struct {
	// client serves the REST endpoints with a hard timeout. Streams use
	// streamClient instead: a stream outlives any fixed timeout, so
	// cancellation comes from the request context alone.
	client       *http.Client
	streamClient *http.Client
	baseURL      string

	healthMu      sync.Mutex
	healthLimiter *rate.Limiter
	lastHealth    domain.HealthStatus
	healthKnown   bool
}

// NewClient creates a backend client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Client{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		streamClient:  &http.Client{},
		baseURL:       cfg.BaseURL,
		healthLimiter: rate.NewLimiter(rate.Every(healthProbeInterval), 1),
	}
}

// streamRequest is the /query/stream request format.
type streamRequest struct {
	Query          string `json:"query"`
	ConversationID string `json:"conversation_id,omitempty"`
}

// StreamQuery submits a query and returns the decoded event stream.
func (c *Client) StreamQuery(ctx context.Context, query, conversationID string) (driven.QueryStream, error) {
	jsonBody, err := json.Marshal(streamRequest{
		Query:          query,
		ConversationID: conversationID,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/query/stream",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.streamClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", domain.ErrBackendUnavailable)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, c.statusError("query stream", resp)
	}

	return newQueryStream(resp.Body), nil
}

// conversationsResponse is the /conversations response format.
type conversationsResponse struct {
	Conversations []struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	} `json:"conversations"`
}

// ListConversations fetches the conversation summaries, most recent first.
func (c *Client) ListConversations(ctx context.Context) ([]domain.Conversation, error) {
	var listResp conversationsResponse
	if err := c.getJSON(ctx, "/conversations", &listResp); err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}

	conversations := make([]domain.Conversation, 0, len(listResp.Conversations))
	for _, entry := range listResp.Conversations {
		conversations = append(conversations, domain.Conversation{
			ID:    entry.ID,
			Title: entry.Title,
		})
	}
	return conversations, nil
}

// historyResponse is the /conversations/{id} response format.
type historyResponse struct {
	History []struct {
		Type      string         `json:"type"`
		Content   string         `json:"content"`
		Citations []wireCitation `json:"citations"`
	} `json:"history"`
}

// History fetches the full message history for a conversation. Replayed
// messages are complete; no streaming state is reconstructed.
func (c *Client) History(ctx context.Context, conversationID string) ([]domain.Message, error) {
	var histResp historyResponse
	if err := c.getJSON(ctx, "/conversations/"+conversationID, &histResp); err != nil {
		return nil, fmt.Errorf("conversation history: %w", err)
	}

	messages := make([]domain.Message, 0, len(histResp.History))
	for i, entry := range histResp.History {
		role := domain.RoleAssistant
		// Older backend records use "human" and "ai" role tags.
		if entry.Type == "user" || entry.Type == "human" {
			role = domain.RoleUser
		}

		msg := domain.Message{
			ID:      fmt.Sprintf("%s-%d", conversationID, i),
			Role:    role,
			Content: entry.Content,
			Status:  domain.StatusComplete,
		}
		for _, cit := range entry.Citations {
			msg.Citations = append(msg.Citations, cit.toDomain())
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

// DeleteConversation removes a conversation on the backend.
func (c *Client) DeleteConversation(ctx context.Context, conversationID string) error {
	if err := c.delete(ctx, "/conversations/"+conversationID); err != nil {
		return fmt.Errorf("delete conversation: %w", err)
	}
	return nil
}

// documentsResponse is the /documents response format.
type documentsResponse struct {
	Documents []struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Size   int64  `json:"size"`
		Chunks int    `json:"chunks"`
	} `json:"documents"`
}

// ListDocuments fetches the documents known to the backend.
func (c *Client) ListDocuments(ctx context.Context) ([]domain.DocumentInfo, error) {
	var listResp documentsResponse
	if err := c.getJSON(ctx, "/documents", &listResp); err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	documents := make([]domain.DocumentInfo, 0, len(listResp.Documents))
	for _, entry := range listResp.Documents {
		documents = append(documents, domain.DocumentInfo{
			ID:        entry.ID,
			Filename:  entry.Name,
			NumChunks: entry.Chunks,
			FileSize:  entry.Size,
		})
	}
	return documents, nil
}

// DeleteDocument removes a document on the backend.
func (c *Client) DeleteDocument(ctx context.Context, documentID string) error {
	if err := c.delete(ctx, "/documents/"+documentID); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

// uploadResponse is the /upload response format.
type uploadResponse struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	DocumentID string `json:"document_id"`
	NumChunks  int    `json:"num_chunks"`
	Filename   string `json:"filename"`
}

// UploadDocument sends a local file to the backend for processing.
func (c *Client) UploadDocument(ctx context.Context, path string) (domain.DocumentInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return domain.DocumentInfo{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() > maxUploadSize {
		return domain.DocumentInfo{}, fmt.Errorf(
			"%s is %d bytes (limit %d): %w", path, info.Size(), int64(maxUploadSize), domain.ErrUploadTooLarge)
	}

	file, err := os.Open(path)
	if err != nil {
		return domain.DocumentInfo{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return domain.DocumentInfo{}, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return domain.DocumentInfo{}, fmt.Errorf("read %s: %w", path, err)
	}
	if err := writer.Close(); err != nil {
		return domain.DocumentInfo{}, fmt.Errorf("finish form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", &body)
	if err != nil {
		return domain.DocumentInfo{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return domain.DocumentInfo{}, fmt.Errorf("send request: %w", domain.ErrBackendUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.DocumentInfo{}, c.statusError("upload", resp)
	}

	var upResp uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&upResp); err != nil {
		return domain.DocumentInfo{}, fmt.Errorf("decode response: %w", err)
	}

	logger.Debug("uploaded %s: %s (%d chunks)", path, upResp.Status, upResp.NumChunks)
	return domain.DocumentInfo{
		ID:        upResp.DocumentID,
		Filename:  upResp.Filename,
		NumChunks: upResp.NumChunks,
		FileSize:  info.Size(),
	}, nil
}

// Health probes the backend health endpoint. Probes are throttled;
// within the throttle window the cached status is returned.
func (c *Client) Health(ctx context.Context) (domain.HealthStatus, error) {
	c.healthMu.Lock()
	defer c.healthMu.Unlock()

	if !c.healthLimiter.Allow() && c.healthKnown {
		return c.lastHealth, nil
	}

	var wire struct {
		Status  string `json:"status"`
		Service string `json:"service"`
		Version string `json:"version"`
	}
	if err := c.getJSON(ctx, "/api/health", &wire); err != nil {
		return domain.HealthStatus{}, fmt.Errorf("health probe: %w", err)
	}

	status := domain.HealthStatus{
		Status:  wire.Status,
		Service: wire.Service,
		Version: wire.Version,
	}
	c.lastHealth = status
	c.healthKnown = true
	return status, nil
}

// getJSON issues a GET and decodes the JSON response into out.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", domain.ErrBackendUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.statusError("get "+path, resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// delete issues a DELETE and checks the response status.
func (c *Client) delete(ctx context.Context, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", domain.ErrBackendUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.statusError("delete "+path, resp)
	}
	return nil
}

// statusError maps a non-success response to a domain error, keeping the
// response body as diagnostic detail.
func (c *Client) statusError(op string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s (status %d): %w", op, resp.StatusCode, domain.ErrNotFound)
	}
	logger.Debug("%s failed (status %d): %s", op, resp.StatusCode, string(body))
	return fmt.Errorf("%s (status %d): %w", op, resp.StatusCode, domain.ErrBackendUnavailable)
}
