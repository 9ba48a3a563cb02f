// Copyright (c) 2026 Shiori Press. All rights reserved.
// Author: contact@shiori.press

/*
Package storage provides the S3-compatible object store client used for
binary asset payloads (cover images, ebook files).

It targets Cloudflare R2 but works against any S3-compatible endpoint.

Core Responsibilities:

  - Upload: Server-side PUT of raw request bodies keyed by asset UUID.
  - Delivery: Short-lived presigned GET URLs for storefront downloads.
  - Isolation: Domain services depend on a narrow interface, never on the SDK.
*/
package storage

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/shiori-press/shiori/internal/platform/config"
)

// presignTTL is how long generated download URLs stay valid.
const presignTTL = 15 * time.Minute

// Client wraps the AWS SDK S3 client with the bucket configuration.
type Client struct {
	client    *s3.Client
	presigner *s3.PresignClient
	bucket    string
}

// NewClient initializes an S3-compatible client from application configuration.
//
// # Parameters
//   - ctx: Context for SDK configuration loading.
//   - cfg: Application configuration carrying endpoint, bucket, and credentials.
//   - logger: Structured logger for startup events.
func NewClient(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Client, error) {
	creds := credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(creds),
	)
	if err != nil {
		return nil, fmt.Errorf("storage: failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(options *s3.Options) {
		if cfg.S3Endpoint != "" {
			options.BaseEndpoint = aws.String(cfg.S3Endpoint)
		}
		options.UsePathStyle = false
	})

	logger.Info("object storage client configured",
		slog.String("bucket", cfg.S3Bucket),
		slog.String("region", cfg.S3Region),
	)

	return &Client{
		client:    client,
		presigner: s3.NewPresignClient(client),
		bucket:    cfg.S3Bucket,
	}, nil
}

/*
Upload writes a binary payload to the bucket under the given object key.

Parameters:
  - ctx: context.Context
  - objectKey: string (e.g. "covers/<uuid>")
  - contentType: string (validated MIME type)
  - payload: []byte (full binary body)

Returns:
  - error: Upstream storage failures
*/
func (c *Client) Upload(ctx context.Context, objectKey, contentType string, payload []byte) error {
	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(objectKey),
		Body:          bytes.NewReader(payload),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(payload))),
	})
	if err != nil {
		return fmt.Errorf("storage: failed to upload %s: %w", objectKey, err)
	}
	return nil
}

/*
DownloadURL creates a short-lived presigned GET URL for an object.

Parameters:
  - ctx: context.Context
  - objectKey: string

Returns:
  - string: Presigned URL valid for [presignTTL]
  - error: Presigning failures
*/
func (c *Client) DownloadURL(ctx context.Context, objectKey string) (string, error) {
	request, err := c.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(objectKey),
	}, func(options *s3.PresignOptions) {
		options.Expires = presignTTL
	})
	if err != nil {
		return "", fmt.Errorf("storage: failed to presign %s: %w", objectKey, err)
	}
	return request.URL, nil
}

/*
Delete removes an object from the bucket. Used to reap orphaned payloads
when a metadata write fails after a successful upload.
*/
func (c *Client) Delete(ctx context.Context, objectKey string) error {
	_, err := c.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return fmt.Errorf("storage: failed to delete %s: %w", objectKey, err)
	}
	return nil
}
