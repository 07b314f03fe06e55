package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"filedrop/internal/domain"
)

// StatusError is returned when the server answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.StatusCode)
	}
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// Client calls the filedrop HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

type uploadResponse struct {
	Success bool   `json:"success"`
	URL     string `json:"url"`
}

type errorResponse struct {
	Error string `json:"error"`
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// Upload posts body as the multipart field "file". progress, when set, receives
// the number of file bytes handed to the transport so far.
func (c *Client) Upload(ctx context.Context, name, contentType string, size int64, body io.Reader, progress func(sent, total int64)) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	var envelope bytes.Buffer
	mw := multipart.NewWriter(&envelope)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(name)))
	header.Set("Content-Type", contentType)
	if _, err := mw.CreatePart(header); err != nil {
		return "", fmt.Errorf("build multipart header: %w", err)
	}
	prefixLen := envelope.Len()
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("build multipart trailer: %w", err)
	}
	prefix := envelope.Bytes()[:prefixLen]
	suffix := envelope.Bytes()[prefixLen:]

	var payload io.Reader = body
	if reporter := newProgressReporter(size, progress); reporter != nil {
		reporter.report(0)
		payload = io.TeeReader(body, reporter)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload",
		io.MultiReader(bytes.NewReader(prefix), payload, bytes.NewReader(suffix)))
	if err != nil {
		return "", err
	}
	req.ContentLength = int64(len(prefix)) + size + int64(len(suffix))
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", name, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return "", err
	}

	// An unreadable success body still counts as an upload; the URL stays empty.
	var out uploadResponse
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return out.URL, nil
}

func (c *Client) List(ctx context.Context) ([]domain.StoredObject, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/list", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	files := []domain.StoredObject{}
	if err := json.NewDecoder(resp.Body).Decode(&files); err != nil {
		return nil, fmt.Errorf("decode file list: %w", err)
	}
	return files, nil
}

func (c *Client) Delete(ctx context.Context, key string) error {
	endpoint := c.baseURL + "/api/delete?key=" + url.QueryEscape(key)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	defer resp.Body.Close()

	return checkStatus(resp)
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	var body errorResponse
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return &StatusError{StatusCode: resp.StatusCode, Message: body.Error}
}
