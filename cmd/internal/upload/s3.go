package upload

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// S3Config describes the object storage target (AWS S3 or MinIO).
type S3Config struct {
	Region       string
	BaseEndpoint string // optional; set for MinIO/self-hosted
	Bucket       string
	AccessKey    string
	SecretKey    string

	// PublicBaseURL is the prefix of the returned URLs. When empty, the
	// endpoint + bucket path is used.
	PublicBaseURL string
}

// S3Uploader stores images as S3 objects and returns public object URLs.
type S3Uploader struct {
	cfg    S3Config
	client *s3.Client
}

// NewS3Uploader builds an Uploader backed by S3-compatible object storage.
func NewS3Uploader(ctx context.Context, cfg S3Config) (*S3Uploader, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("upload: empty bucket")
	}

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Uploader{cfg: cfg, client: client}, nil
}

// Upload puts the payload under a random date-partitioned key and returns
// the public URL of the stored object.
func (u *S3Uploader) Upload(ctx context.Context, data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("upload: empty image")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := randomObjectKey(time.Now().UTC())

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.cfg.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload: put object: %w", err)
	}

	return u.objectURL(key), nil
}

func (u *S3Uploader) objectURL(key string) string {
	if base := strings.TrimRight(u.cfg.PublicBaseURL, "/"); base != "" {
		return base + "/" + key
	}
	if ep := strings.TrimRight(u.cfg.BaseEndpoint, "/"); ep != "" {
		return ep + "/" + u.cfg.Bucket + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.cfg.Bucket, u.cfg.Region, key)
}

func randomObjectKey(now time.Time) string {
	return fmt.Sprintf("avatars/%d/%02d/%02d/%s", now.Year(), now.Month(), now.Day(), uuid.New())
}
