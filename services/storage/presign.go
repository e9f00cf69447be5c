package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/uuid"
)

const (
	KindImage    = "image"
	KindVideo    = "video"
	KindDocument = "document"
)

// PresignedPost is a browser-style upload target: POST Fields plus a `file`
// part as multipart form data to URL.
type PresignedPost struct {
	URL    string            `json:"url"`
	Fields map[string]string `json:"fields"`
}

type Presigner interface {
	PresignPost(ctx context.Context, key, contentType string) (*PresignedPost, error)
	ObjectURL(key string) string
}

var documentTypes = []string{
	"application/pdf",
	"application/zip",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"application/vnd.openxmlformats-officedocument.presentationml.presentation",
	"text/plain",
	"text/markdown",
}

// AllowedContentType reports whether contentType may be uploaded as kind.
func AllowedContentType(kind, contentType string) bool {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	switch kind {
	case KindImage:
		return strings.HasPrefix(ct, "image/")
	case KindVideo:
		return strings.HasPrefix(ct, "video/")
	case KindDocument:
		return slices.Contains(documentTypes, ct)
	default:
		return false
	}
}

// ObjectKey builds a collision free key that keeps the original extension.
func ObjectKey(kind string, userID uint, filename string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	if len(ext) > 10 {
		ext = ""
	}
	return fmt.Sprintf("%s/%d/%s%s", kind, userID, uuid.NewString(), ext)
}

// JoinObjectURL appends key to an upload target URL.
func JoinObjectURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}
