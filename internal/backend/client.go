package backend

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
	"time"

	"fense-console/internal/domain"
)

// Client is the HTTP interface to the verification backend. Every method
// takes a context so an abandoned page load cancels its backend call. No
// method retries; a failed call is terminal for that user action.
type Client interface {
	VerifyInput(ctx context.Context, req domain.VerificationRequest) (*domain.VerifyResponse, error)
	TriggerCrawl(ctx context.Context, job domain.CrawlJob) (string, error)
	News(ctx context.Context) ([]domain.NewsItem, error)
	History(ctx context.Context) ([]domain.HistoryItem, error)
	SearchNews(ctx context.Context, query string) ([]domain.NewsItem, error)
	AddNews(ctx context.Context, title, content, link string) (string, error)
	DeleteNews(ctx context.Context, id string) (string, error)
}

type httpClient struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string, timeout time.Duration) Client {
	return &httpClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *httpClient) VerifyInput(ctx context.Context, req domain.VerificationRequest) (*domain.VerifyResponse, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	// Absent fields are omitted entirely, not sent as empty values.
	if req.Text != "" {
		if err := writer.WriteField("input_text", req.Text); err != nil {
			return nil, fmt.Errorf("failed to write text field: %w", err)
		}
	}
	if req.Image != nil {
		part, err := createImagePart(writer, req.Image)
		if err != nil {
			return nil, fmt.Errorf("failed to create image part: %w", err)
		}
		if _, err := part.Write(req.Image.Data); err != nil {
			return nil, fmt.Errorf("failed to write image data: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/verify_input", &body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("backend returned status %d", resp.StatusCode)
	}

	var result domain.VerifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}

	return &result, nil
}

func createImagePart(writer *multipart.Writer, image *domain.ImageAttachment) (io.Writer, error) {
	filename := image.Filename
	if filename == "" {
		filename = "pasted-image"
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="input_image"; filename=%q`, filename))
	if image.ContentType != "" {
		header.Set("Content-Type", image.ContentType)
	} else {
		header.Set("Content-Type", "application/octet-stream")
	}

	return writer.CreatePart(header)
}

func (c *httpClient) TriggerCrawl(ctx context.Context, job domain.CrawlJob) (string, error) {
	payload, err := json.Marshal(job)
	if err != nil {
		return "", fmt.Errorf("failed to marshal crawl job: %w", err)
	}

	resp, err := c.postJSON(ctx, "/pipeline_crawl_news", payload)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("backend returned status %d", resp.StatusCode)
	}

	return decodeMessage(resp.Body)
}

func (c *httpClient) News(ctx context.Context) ([]domain.NewsItem, error) {
	var items []domain.NewsItem
	if err := c.getCollection(ctx, "/get_news", "data", &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *httpClient) History(ctx context.Context) ([]domain.HistoryItem, error) {
	var items []domain.HistoryItem
	if err := c.getCollection(ctx, "/get_history", "data", &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *httpClient) SearchNews(ctx context.Context, query string) ([]domain.NewsItem, error) {
	path := "/retrieval_news?query=" + url.QueryEscape(query)

	var items []domain.NewsItem
	if err := c.getCollection(ctx, path, "results", &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *httpClient) AddNews(ctx context.Context, title, content, link string) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"title":   title,
		"content": content,
		"link":    link,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal news payload: %w", err)
	}

	resp, err := c.postJSON(ctx, "/add_news", payload)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("backend returned status %d", resp.StatusCode)
	}

	return decodeMessage(resp.Body)
}

func (c *httpClient) DeleteNews(ctx context.Context, id string) (string, error) {
	if id == "" {
		return "", domain.ErrInvalidNewsID
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		c.baseURL+"/delete_news?id="+url.QueryEscape(id), nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("backend returned status %d", resp.StatusCode)
	}

	return decodeMessage(resp.Body)
}

func (c *httpClient) postJSON(ctx context.Context, path string, payload []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	}
	return resp, nil
}

// getCollection fetches an envelope of the form {<key>: [...]} and decodes
// the named field into out. An absent or null field is not an error; out is
// left as an empty collection.
func (c *httpClient) getCollection(ctx context.Context, path, key string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("backend returned status %d", resp.StatusCode)
	}

	var envelope map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}

	raw, ok := envelope[key]
	if !ok || string(raw) == "null" {
		return nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}

	return nil
}

func decodeMessage(body io.Reader) (string, error) {
	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(body).Decode(&envelope); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	return envelope.Message, nil
}
