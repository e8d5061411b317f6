package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the part of the S3 client the storage uses.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type S3Storage struct {
	client  S3API
	bucket  string
	region  string
	baseURL string
	prefix  string
}

func NewS3Storage(region, bucket, accessKeyID, secretAccessKey, baseURL, prefix string) *S3Storage {
	var cfg aws.Config
	var err error

	// If credentials are provided, use them. Otherwise, use default credential chain
	if accessKeyID != "" && secretAccessKey != "" {
		cfg = aws.Config{
			Region: region,
			Credentials: credentials.NewStaticCredentialsProvider(
				accessKeyID,
				secretAccessKey,
				"",
			),
		}
	} else {
		cfg, err = config.LoadDefaultConfig(context.TODO(),
			config.WithRegion(region),
		)
		if err != nil {
			cfg = aws.Config{
				Region: region,
			}
		}
	}

	return NewS3StorageWithClient(s3.NewFromConfig(cfg), bucket, region, baseURL, prefix)
}

func NewS3StorageWithClient(client S3API, bucket, region, baseURL, prefix string) *S3Storage {
	return &S3Storage{
		client:  client,
		bucket:  bucket,
		region:  region,
		baseURL: strings.TrimRight(baseURL, "/"),
		prefix:  strings.Trim(prefix, "/"),
	}
}

// Save uploads body under prefix/<uuid>.<ext> and returns the object key.
func (s *S3Storage) Save(ctx context.Context, originalName, contentType string, body io.Reader) (string, error) {
	key := uniqueName(originalName)
	if s.prefix != "" {
		key = path.Join(s.prefix, key)
	}

	// The SDK needs a seekable body to sign the payload.
	seeker, ok := body.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(body)
		if err != nil {
			return "", fmt.Errorf("failed to read upload: %w", err)
		}
		seeker = bytes.NewReader(data)
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        seeker,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object: %w", err)
	}
	return key, nil
}

func (s *S3Storage) Delete(ctx context.Context, name string) error {
	if name == "" {
		return nil
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(name),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

func (s *S3Storage) URL(name string) string {
	if name == "" {
		return ""
	}
	if s.baseURL != "" {
		// Use CloudFront or custom domain
		return fmt.Sprintf("%s/%s", s.baseURL, name)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, name)
}
