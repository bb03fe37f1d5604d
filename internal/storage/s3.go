package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"golang.org/x/xerrors"
)

type s3Storage struct {
	client *s3.Client
	config S3Config
}

type S3Config struct {
	Bucket string
}

func NewS3Storage(ctx context.Context, s S3Config) (Storage, error) {
	var optsFunc []func(*config.LoadOptions) error

	s3EndpointUrl, ok := os.LookupEnv("S3_ENDPOINT_URL")
	if ok {
		resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
			return aws.Endpoint{
				URL:               s3EndpointUrl,
				HostnameImmutable: true,
			}, nil
		})
		optsFunc = append(optsFunc, config.WithEndpointResolverWithOptions(resolver))
	}

	c, err := config.LoadDefaultConfig(ctx, optsFunc...)
	if err != nil {
		return nil, xerrors.Errorf("failed to load AWS config: %w", err)
	}
	s3Client := s3.NewFromConfig(c, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	return &s3Storage{
		client: s3Client,
		config: s,
	}, nil
}

// key accepts both bare keys and the s3:// URLs returned by Put.
func (s *s3Storage) key(key string) string {
	return strings.TrimPrefix(key, fmt.Sprintf("s3://%s/", s.config.Bucket))
}

func (s *s3Storage) Put(ctx context.Context, key string, data []byte) (string, error) {
	contentType := http.DetectContentType(data)

	if _, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.config.Bucket),
		Key:         aws.String(s.key(key)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	}); err != nil {
		return "", xerrors.Errorf("failed to upload to S3: %w", err)
	}

	return fmt.Sprintf("s3://%s/%s", s.config.Bucket, s.key(key)), nil
}

func (s *s3Storage) Get(ctx context.Context, key string) ([]byte, error) {
	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.config.Bucket),
		Key:    aws.String(s.key(key)),
	})
	if err != nil {
		return nil, xerrors.Errorf("failed to download from S3: %w", err)
	}
	defer result.Body.Close()

	var buffer bytes.Buffer
	_, err = buffer.ReadFrom(result.Body)
	if err != nil {
		return nil, xerrors.Errorf("failed to read S3 object: %w", err)
	}

	return buffer.Bytes(), nil
}

func (s *s3Storage) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.config.Bucket),
		Key:    aws.String(s.key(key)),
	})
	if err == nil {
		return true, nil
	}

	var notFound *types.NotFound
	var noSuchKey *types.NoSuchKey
	if !errors.As(err, &notFound) && !errors.As(err, &noSuchKey) {
		return false, xerrors.Errorf("failed to stat S3 object: %w", err)
	}

	// No object under the exact key; treat it as a directory-like prefix.
	result, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(s.config.Bucket),
		Prefix:  aws.String(strings.TrimSuffix(s.key(key), "/") + "/"),
		MaxKeys: aws.Int32(1),
	})
	if err != nil {
		return false, xerrors.Errorf("failed to list S3 prefix: %w", err)
	}

	return len(result.Contents) > 0, nil
}
