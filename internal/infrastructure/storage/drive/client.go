package drive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dhg/docflow/internal/core/domain"
	"github.com/dhg/docflow/internal/infrastructure/resilience"
)

// Client talks to a Drive-style files API with a bearer token.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	executor   *resilience.Executor
}

func New(baseURL, token string, executor *resilience.Executor) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		executor:   executor,
	}
}

// ValidateToken probes the API once before a batch so auth problems surface
// as one clear error instead of a failure per file.
func (c *Client) ValidateToken(ctx context.Context) error {
	_, err := c.fetch(ctx, "/about", url.Values{"fields": {"user"}}, "validate token")
	return err
}

func (c *Client) GetFile(ctx context.Context, fileID string) (domain.DriveFile, error) {
	raw, err := c.fetch(ctx, "/files/"+url.PathEscape(fileID), url.Values{
		"fields": {"id,name,mimeType"},
	}, "get file metadata")
	if err != nil {
		return domain.DriveFile{}, err
	}

	var file domain.DriveFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return domain.DriveFile{}, fmt.Errorf("decode file metadata: %w", err)
	}
	return file, nil
}

// Download fetches raw file bytes via alt=media.
func (c *Client) Download(ctx context.Context, fileID string) ([]byte, error) {
	return c.fetch(ctx, "/files/"+url.PathEscape(fileID), url.Values{
		"alt": {"media"},
	}, "download file")
}

// ListFolder returns one page of a folder's children plus the next page
// token, empty when the listing is exhausted.
func (c *Client) ListFolder(ctx context.Context, folderID, pageToken string) ([]domain.DriveFile, string, error) {
	params := url.Values{
		"q":        {fmt.Sprintf("'%s' in parents and trashed = false", folderID)},
		"fields":   {"nextPageToken,files(id,name,mimeType)"},
		"pageSize": {"100"},
	}
	if pageToken != "" {
		params.Set("pageToken", pageToken)
	}

	raw, err := c.fetch(ctx, "/files", params, "list folder")
	if err != nil {
		return nil, "", err
	}

	var page struct {
		NextPageToken string             `json:"nextPageToken"`
		Files         []domain.DriveFile `json:"files"`
	}
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, "", fmt.Errorf("decode folder listing: %w", err)
	}
	return page.Files, page.NextPageToken, nil
}

func (c *Client) fetch(ctx context.Context, path string, params url.Values, operation string) ([]byte, error) {
	var body []byte
	call := func(callCtx context.Context) error {
		var err error
		body, err = c.get(callCtx, path, params, operation)
		return err
	}

	var err error
	if c.executor != nil {
		err = c.executor.Run(ctx, "drive."+operation, call, classifyDriveError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return nil, wrapAuthError(operation, err)
	}
	return body, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, operation string) ([]byte, error) {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", operation, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("drive %s request: %w", operation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, &HTTPStatusError{
			Operation:  operation,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(detail)),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", operation, err)
	}
	return body, nil
}
