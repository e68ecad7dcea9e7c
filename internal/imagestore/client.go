package imagestore

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"fieldreport-backend/internal/config"
)

// Client uploads photo assets to Cloudflare R2 through the S3 API.
//
// Objects are written under "upload/{folder}/{name}" keys with no file
// extension so the public URL keeps the /upload/{version?}/{id}.{ext?}
// shape that ExtractPublicID can reverse. The content type travels on
// the object instead.
type Client struct {
	s3Client  *s3.Client
	bucket    string
	publicURL string
}

// UploadOptions carries per-object metadata for an upload.
type UploadOptions struct {
	ContentType  string
	CacheControl string
}

// UploadResult describes the stored asset.
type UploadResult struct {
	PublicID  string
	SecureURL string
	URL       string
	Width     int
	Height    int
	Format    string
	Bytes     int64
}

// NewClient constructs an S3-compatible client for Cloudflare R2.
func NewClient(ctx context.Context, cfg *config.Config) (*Client, error) {
	if cfg.R2AccountID == "" || cfg.R2AccessKeyID == "" || cfg.R2SecretAccessKey == "" || cfg.R2BucketName == "" || cfg.R2PublicURL == "" {
		return nil, fmt.Errorf("missing Cloudflare R2 configuration")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(
		ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.R2AccessKeyID, cfg.R2SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config for R2: %w", err)
	}

	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.R2AccountID)
	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	return &Client{
		s3Client:  s3Client,
		bucket:    cfg.R2BucketName,
		publicURL: strings.TrimSuffix(cfg.R2PublicURL, "/"),
	}, nil
}

// Upload stores the buffer under a fresh name inside folder and returns
// the asset's public location.
func (c *Client) Upload(ctx context.Context, data []byte, folder string, opts UploadOptions) (*UploadResult, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty upload buffer")
	}

	publicID := fmt.Sprintf("%s/%s", strings.Trim(folder, "/"), uuid.NewString())
	key := "upload/" + publicID

	input := &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(opts.ContentType),
	}
	if opts.CacheControl != "" {
		input.CacheControl = aws.String(opts.CacheControl)
	}
	if _, err := c.s3Client.PutObject(ctx, input); err != nil {
		return nil, fmt.Errorf("failed to upload to r2: %w", err)
	}

	url := fmt.Sprintf("%s/%s", c.publicURL, key)
	res := &UploadResult{
		PublicID:  publicID,
		SecureURL: url,
		URL:       url,
		Format:    formatFromContentType(opts.ContentType),
		Bytes:     int64(len(data)),
	}
	if dims, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		res.Width = dims.Width
		res.Height = dims.Height
	}
	return res, nil
}

// Delete removes the asset identified by a publicID previously returned
// from Upload or recovered with ExtractPublicID.
func (c *Client) Delete(ctx context.Context, publicID string) error {
	if publicID == "" {
		return fmt.Errorf("empty public id")
	}
	_, err := c.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String("upload/" + publicID),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from r2: %w", err)
	}
	return nil
}

func formatFromContentType(contentType string) string {
	if i := strings.LastIndex(contentType, "/"); i >= 0 {
		return contentType[i+1:]
	}
	return contentType
}
