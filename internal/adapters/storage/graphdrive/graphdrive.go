// Package graphdrive implements the StorageProvider contract for Graph-style
// drives. This is the session-style family: the backend hands out one upload
// session URL that accepts sequential byte ranges, so the per-part URL is the
// session URL itself and completion happens when the final range is PUT.
package graphdrive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"roomfiles/internal/config"
	"roomfiles/internal/core/domain"
	"roomfiles/internal/core/port"
)

const providerName = "graphdrive"

// Upload ranges must be multiples of 320 KiB; sessions cap each range at
// 60 MiB and items at 250 GiB.
var capabilities = domain.ProviderCapabilities{
	SupportsMultipartUpload:      true,
	MinimumPartSize:              320 << 10,
	MaximumPartSize:              60 << 20,
	MaximumPartCount:             819200, // 250 GiB of minimum-size ranges
	SupportsRangeRequests:        true,
	SupportsServerSideEncryption: false,
	MaximumFileSize:              250 << 30,
}

// Adapter is a StorageProvider for Graph-style drives
type Adapter struct {
	httpClient *http.Client
	config     config.GraphDriveConfig
	logger     *slog.Logger
}

// NewAdapter creates a Graph drive adapter
func NewAdapter(cfg config.GraphDriveConfig, logger *slog.Logger) *Adapter {
	return &Adapter{
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		config:     cfg,
		logger:     logger,
	}
}

var _ port.StorageProvider = (*Adapter)(nil)

// Name identifies the backend family
func (a *Adapter) Name() string {
	return providerName
}

// Capabilities returns the drive's upload limits
func (a *Adapter) Capabilities() domain.ProviderCapabilities {
	return capabilities
}

// itemURL addresses an item by its path under the drive root. Each segment
// is escaped on its own so the separators of nested keys stay path separators.
func (a *Adapter) itemURL(key string, suffix string) string {
	segments := strings.Split(strings.TrimPrefix(key, "/"), "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	escaped := strings.Join(segments, "/")
	return fmt.Sprintf("%s/drives/%s/root:/%s:%s", strings.TrimSuffix(a.config.BaseURL, "/"), a.config.DriveID, escaped, suffix)
}

func (a *Adapter) do(ctx context.Context, method, rawURL string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.config.AccessToken)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, &statusError{code: resp.StatusCode, body: strings.TrimSpace(string(payload))}
	}
	return resp, nil
}

type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("drive returned %d: %s", e.code, e.body)
}

func (a *Adapter) doJSON(ctx context.Context, method, rawURL string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	resp, err := a.do(ctx, method, rawURL, reader, "application/json")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

type uploadSessionResponse struct {
	UploadURL          string `json:"uploadUrl"`
	ExpirationDateTime string `json:"expirationDateTime"`
}

// CreateMultipartUpload opens an upload session; its URL is the provider handle
func (a *Adapter) CreateMultipartUpload(ctx context.Context, key string, opts domain.UploadOptions) (string, error) {
	body := map[string]any{
		"item": map[string]any{
			"@microsoft.graph.conflictBehavior": "fail",
		},
	}

	var session uploadSessionResponse
	if err := a.doJSON(ctx, http.MethodPost, a.itemURL(key, "/createUploadSession"), body, &session); err != nil {
		return "", fmt.Errorf("failed to create upload session: %w", err)
	}
	if session.UploadURL == "" {
		return "", fmt.Errorf("upload session response missing uploadUrl")
	}
	return session.UploadURL, nil
}

// PartUploadURL returns the session URL; every byte range goes to the same
// endpoint with its own Content-Range header.
func (a *Adapter) PartUploadURL(_ context.Context, _ string, handle string, _ int, _ int64) (string, error) {
	return handle, nil
}

// CompleteMultipartUpload is a local no-op: the session completed server-side
// when the final byte range was PUT. No network call is made.
func (a *Adapter) CompleteMultipartUpload(_ context.Context, _ string, _ string, _ []domain.UploadPart) error {
	return nil
}

// AbortMultipartUpload cancels the session and best-effort deletes any
// partially materialized item.
func (a *Adapter) AbortMultipartUpload(ctx context.Context, key string, handle string) error {
	if err := a.doJSON(ctx, http.MethodDelete, handle, nil, nil); err != nil {
		return fmt.Errorf("failed to cancel upload session: %w", err)
	}

	if err := a.DeleteFile(ctx, key); err != nil {
		a.logger.Warn("failed to delete partial item after abort", "key", key, "error", err)
	}
	return nil
}

type itemResponse struct {
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	ETag        string `json:"eTag"`
	DownloadURL string `json:"@microsoft.graph.downloadUrl"`
	File        struct {
		MimeType string `json:"mimeType"`
	} `json:"file"`
	LastModifiedDateTime time.Time `json:"lastModifiedDateTime"`
}

// SignedURL returns the item's short-lived download URL for reads, or a fresh
// upload session URL for writes.
func (a *Adapter) SignedURL(ctx context.Context, key string, opts domain.SignedURLOptions) (string, *time.Time, error) {
	if opts.Operation == domain.SignedURLWrite {
		sessionURL, err := a.CreateMultipartUpload(ctx, key, domain.UploadOptions{ContentType: opts.ContentType})
		if err != nil {
			return "", nil, err
		}
		expiresAt := time.Now().Add(a.config.UploadSessionTTL)
		return sessionURL, &expiresAt, nil
	}

	var item itemResponse
	if err := a.doJSON(ctx, http.MethodGet, a.itemURL(key, ""), nil, &item); err != nil {
		return "", nil, fmt.Errorf("failed to get item: %w", err)
	}
	if item.DownloadURL == "" {
		return "", nil, fmt.Errorf("item %s has no download URL", key)
	}
	expiresAt := time.Now().Add(a.config.DownloadURLTTL)
	return item.DownloadURL, &expiresAt, nil
}

// FileContent reads the item's content, optionally a byte range of it
func (a *Adapter) FileContent(ctx context.Context, key string, rng *domain.ByteRange) (io.ReadCloser, error) {
	if err := capabilities.CheckRange(rng); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.itemURL(key, "/content"), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.config.AccessToken)
	if rng != nil {
		if rng.Length > 0 {
			req.Header.Set("Range", fmt.Sprintf("bytes=%d-%d", rng.Offset, rng.Offset+rng.Length-1))
		} else {
			req.Header.Set("Range", fmt.Sprintf("bytes=%d-", rng.Offset))
		}
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get content: %w", err)
	}
	if resp.StatusCode >= 400 {
		resp.Body.Close()
		return nil, fmt.Errorf("drive returned %d for %s", resp.StatusCode, key)
	}
	return resp.Body, nil
}

// FileMetadata returns the item's metadata
func (a *Adapter) FileMetadata(ctx context.Context, key string) (*domain.ObjectInfo, error) {
	var item itemResponse
	if err := a.doJSON(ctx, http.MethodGet, a.itemURL(key, ""), nil, &item); err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return &domain.ObjectInfo{
		Key:          key,
		Size:         item.Size,
		ETag:         item.ETag,
		ContentType:  item.File.MimeType,
		LastModified: item.LastModifiedDateTime,
	}, nil
}

type childrenResponse struct {
	Value    []itemResponse `json:"value"`
	NextLink string         `json:"@odata.nextLink"`
}

// ListFiles lists a folder's children; the next marker is the continuation link
func (a *Adapter) ListFiles(ctx context.Context, prefix string, opts domain.ListOptions) ([]domain.ObjectInfo, string, error) {
	listURL := opts.Marker
	if listURL == "" {
		listURL = a.itemURL(prefix, "/children")
		if opts.MaxKeys > 0 {
			listURL += fmt.Sprintf("?$top=%d", opts.MaxKeys)
		}
	}

	var page childrenResponse
	if err := a.doJSON(ctx, http.MethodGet, listURL, nil, &page); err != nil {
		return nil, "", fmt.Errorf("failed to list children: %w", err)
	}

	infos := make([]domain.ObjectInfo, 0, len(page.Value))
	for _, item := range page.Value {
		infos = append(infos, domain.ObjectInfo{
			Key:          strings.TrimSuffix(prefix, "/") + "/" + item.Name,
			Size:         item.Size,
			ETag:         item.ETag,
			ContentType:  item.File.MimeType,
			LastModified: item.LastModifiedDateTime,
		})
	}
	return infos, page.NextLink, nil
}

// DeleteFile removes the item; a missing item is not an error
func (a *Adapter) DeleteFile(ctx context.Context, key string) error {
	resp, err := a.do(ctx, http.MethodDelete, a.itemURL(key, ""), nil, "")
	if err != nil {
		var sErr *statusError
		if errors.As(err, &sErr) && sErr.code == http.StatusNotFound {
			return nil
		}
		return fmt.Errorf("failed to delete item: %w", err)
	}
	resp.Body.Close()
	return nil
}

type driveResponse struct {
	Quota struct {
		Used  int64 `json:"used"`
		Total int64 `json:"total"`
	} `json:"quota"`
}

// StorageStats returns drive quota usage
func (a *Adapter) StorageStats(ctx context.Context) (*domain.StorageStats, error) {
	driveURL := fmt.Sprintf("%s/drives/%s", strings.TrimSuffix(a.config.BaseURL, "/"), a.config.DriveID)

	var drive driveResponse
	if err := a.doJSON(ctx, http.MethodGet, driveURL, nil, &drive); err != nil {
		return nil, fmt.Errorf("failed to get drive: %w", err)
	}
	return &domain.StorageStats{TotalBytes: drive.Quota.Used}, nil
}
