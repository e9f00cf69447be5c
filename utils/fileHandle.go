package utils

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
)

// SaveUploadedFile copies an uploaded form file to root/key, creating parent
// directories. key must be a relative, already validated object key.
func SaveUploadedFile(file *multipart.FileHeader, root, key string) (int64, error) {
	src, err := file.Open()
	if err != nil {
		return 0, err
	}
	defer src.Close()

	dest := filepath.Join(root, filepath.FromSlash(key))
	rel, err := filepath.Rel(root, dest)
	if err != nil || strings.HasPrefix(rel, "..") {
		return 0, fmt.Errorf("key %q escapes upload root", key)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return 0, err
	}

	dst, err := os.Create(dest)
	if err != nil {
		return 0, err
	}
	defer dst.Close()

	return io.Copy(dst, src)
}
