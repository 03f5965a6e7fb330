package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// StatusError reports a response the inference service answered with a
// non-200 status. It is recoverable: the caller drops the result and keeps
// the previous overlay.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upload rejected with status %d", e.Code)
}

// Uploader sends one encoded frame to the inference service and returns
// the raw response body.
type Uploader interface {
	Post(ctx context.Context, payload []byte, filename string) ([]byte, error)
}

// HTTPUploader posts frames as multipart/form-data, matching the server's
// upload endpoint (field name "file"). The client timeout bounds the whole
// request; on expiry Post returns a transport error.
type HTTPUploader struct {
	url       string
	fieldName string
	client    *http.Client
}

func NewHTTPUploader(url string, timeout time.Duration) *HTTPUploader {
	return &HTTPUploader{
		url:       url,
		fieldName: "file",
		client:    &http.Client{Timeout: timeout},
	}
}

func (u *HTTPUploader) Post(ctx context.Context, payload []byte, filename string) ([]byte, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile(u.fieldName, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(payload); err != nil {
		return nil, fmt.Errorf("failed to write payload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.url, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload transport error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return data, nil
}
