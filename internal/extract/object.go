package extract

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/devKanyanta/sambilila-worker/internal/domain"
)

// ObjectStorageConfig holds the connection settings for an S3-compatible
// object store. Cloudflare R2 is the intended target, reached through a
// custom endpoint with static credentials.
type ObjectStorageConfig struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// ObjectExtractor fetches documents referenced by r2://bucket/key from an
// S3-compatible store and converts them to plain text.
type ObjectExtractor struct {
	client *s3.Client
}

// NewObjectExtractor builds the S3 client for the configured endpoint.
func NewObjectExtractor(ctx context.Context, cfg ObjectStorageConfig) (*ObjectExtractor, error) {
	opts := []func(*awsconfig.LoadOptions) error{}

	region := cfg.Region
	if region == "" {
		// R2 ignores the region but the SDK requires one.
		region = "auto"
	}
	opts = append(opts, awsconfig.WithRegion(region))

	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load object storage config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = true
	})

	return &ObjectExtractor{client: client}, nil
}

// Extract downloads the referenced object and returns its plain text.
func (e *ObjectExtractor) Extract(ctx context.Context, ref domain.SourceRef) (string, error) {
	bucket, key, err := ref.ObjectParts()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	out, err := e.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return "", fmt.Errorf("%w: fetching object %q from bucket %q: %v",
			ErrExtraction, key, bucket, err)
	}
	defer func() { _ = out.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(out.Body, maxDocumentBytes+1))
	if err != nil {
		return "", fmt.Errorf("%w: reading object %q: %v", ErrExtraction, key, err)
	}
	if len(data) > maxDocumentBytes {
		return "", fmt.Errorf("%w: object %q exceeds the %d byte limit",
			ErrExtraction, key, maxDocumentBytes)
	}

	return documentText(data)
}
