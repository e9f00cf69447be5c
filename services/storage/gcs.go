package storage

import (
	"context"
	"fmt"
	"time"

	gcs "cloud.google.com/go/storage"
)

// GCSPresigner hands out V4 signed POST policies for a Cloud Storage bucket.
type GCSPresigner struct {
	client   *gcs.Client
	bucket   string
	ttl      time.Duration
	maxBytes int64
}

func NewGCSPresigner(ctx context.Context, bucket string, ttl time.Duration, maxBytes int64) (*GCSPresigner, error) {
	if bucket == "" {
		return nil, fmt.Errorf("missing GCS bucket name")
	}
	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &GCSPresigner{client: client, bucket: bucket, ttl: ttl, maxBytes: maxBytes}, nil
}

func (p *GCSPresigner) PresignPost(_ context.Context, key, contentType string) (*PresignedPost, error) {
	if err := CheckKey(key); err != nil {
		return nil, err
	}
	opts := &gcs.PostPolicyV4Options{
		Expires: time.Now().Add(p.ttl),
		Fields:  &gcs.PolicyV4Fields{ContentType: contentType},
	}
	if p.maxBytes > 0 {
		opts.Conditions = []gcs.PostPolicyV4Condition{gcs.ConditionContentLengthRange(0, uint64(p.maxBytes))}
	}
	policy, err := p.client.Bucket(p.bucket).GenerateSignedPostPolicyV4(key, opts)
	if err != nil {
		return nil, fmt.Errorf("sign post policy: %w", err)
	}
	return &PresignedPost{URL: policy.URL, Fields: policy.Fields}, nil
}

func (p *GCSPresigner) ObjectURL(key string) string {
	return JoinObjectURL(fmt.Sprintf("https://storage.googleapis.com/%s", p.bucket), key)
}

func (p *GCSPresigner) Close() error {
	return p.client.Close()
}
