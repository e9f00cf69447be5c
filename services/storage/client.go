package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

type presignRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Type        string `json:"type"`
}

type presignResponse struct {
	Success bool              `json:"success"`
	URL     string            `json:"url"`
	Fields  map[string]string `json:"fields"`
	Error   string            `json:"error"`
}

// UploadClient performs the two step upload: ask the API for a presigned
// target, then post the file straight to it.
type UploadClient struct {
	http    *resty.Client
	baseURL string
}

func NewUploadClient(baseURL string, timeout time.Duration) *UploadClient {
	return &UploadClient{
		http:    resty.New().SetTimeout(timeout),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Upload returns the public URL of the stored object.
func (c *UploadClient) Upload(ctx context.Context, token string, file io.Reader, filename, contentType, kind string) (string, error) {
	var target presignResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetBody(presignRequest{Filename: filename, ContentType: contentType, Type: kind}).
		SetResult(&target).
		SetError(&target).
		Post(c.baseURL + "/api/upload")
	if err != nil {
		return "", fmt.Errorf("request upload target: %w", err)
	}
	if resp.IsError() || !target.Success {
		msg := target.Error
		if msg == "" {
			msg = resp.Status()
		}
		return "", fmt.Errorf("request upload target: %s", msg)
	}
	key := target.Fields["key"]
	if target.URL == "" || key == "" {
		return "", errors.New("request upload target: incomplete response")
	}

	resp, err = c.http.R().
		SetContext(ctx).
		SetMultipartFormData(target.Fields).
		SetMultipartField("file", filename, contentType, file).
		Post(target.URL)
	if err != nil {
		return "", fmt.Errorf("upload file: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("upload file: %s", resp.Status())
	}
	return JoinObjectURL(target.URL, key), nil
}
