package storage

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"path"
	"strconv"
	"strings"
	"time"
)

var (
	ErrBadSignature = errors.New("upload signature mismatch")
	ErrExpired      = errors.New("upload policy expired")
	ErrBadKey       = errors.New("invalid object key")
)

// LocalPresigner signs upload forms for the built-in /uploads receiver.
type LocalPresigner struct {
	BaseURL string
	Secret  []byte
	TTL     time.Duration
	Now     func() time.Time
}

func NewLocalPresigner(baseURL, secret string, ttl time.Duration) *LocalPresigner {
	return &LocalPresigner{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Secret:  []byte(secret),
		TTL:     ttl,
		Now:     time.Now,
	}
}

func (p *LocalPresigner) PresignPost(_ context.Context, key, contentType string) (*PresignedPost, error) {
	if err := CheckKey(key); err != nil {
		return nil, err
	}
	expires := strconv.FormatInt(p.Now().Add(p.TTL).Unix(), 10)
	return &PresignedPost{
		URL: p.BaseURL + "/uploads",
		Fields: map[string]string{
			"key":          key,
			"Content-Type": contentType,
			"expires":      expires,
			"signature":    p.sign(key, contentType, expires),
		},
	}, nil
}

func (p *LocalPresigner) ObjectURL(key string) string {
	return JoinObjectURL(p.BaseURL+"/uploads", key)
}

// Verify checks form fields produced by PresignPost.
func (p *LocalPresigner) Verify(fields map[string]string) error {
	key := fields["key"]
	if err := CheckKey(key); err != nil {
		return err
	}
	expected := p.sign(key, fields["Content-Type"], fields["expires"])
	if !hmac.Equal([]byte(expected), []byte(fields["signature"])) {
		return ErrBadSignature
	}
	exp, err := strconv.ParseInt(fields["expires"], 10, 64)
	if err != nil || p.Now().Unix() > exp {
		return ErrExpired
	}
	return nil
}

func (p *LocalPresigner) sign(key, contentType, expires string) string {
	mac := hmac.New(sha256.New, p.Secret)
	mac.Write([]byte(key + "\n" + contentType + "\n" + expires))
	return hex.EncodeToString(mac.Sum(nil))
}

// CheckKey rejects keys that would escape the upload root.
func CheckKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return ErrBadKey
	}
	if path.Clean(key) != key || strings.HasPrefix(key, "..") {
		return ErrBadKey
	}
	return nil
}
