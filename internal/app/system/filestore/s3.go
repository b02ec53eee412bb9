package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// S3API is the part of *s3.Client used by S3. Tests substitute a fake.
type S3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3 stores objects in a single bucket.
type S3 struct {
	api     S3API
	bucket  string
	baseURL string
}

// NewS3 builds a client from the default AWS credential chain (or the static
// keys in cfg) and points it at cfg.S3Endpoint when one is given.
func NewS3(ctx context.Context, cfg Config) (*S3, error) {
	if cfg.S3Bucket == "" {
		return nil, errors.New("s3 bucket is empty")
	}
	if cfg.S3Region == "" {
		return nil, errors.New("s3 region is empty")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.S3Region),
	}
	if cfg.S3AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
		}
		o.UsePathStyle = cfg.S3PathStyle
	})

	return NewS3WithClient(client, cfg.S3Bucket, publicBaseURL(cfg)), nil
}

// NewS3WithClient wraps an existing client. baseURL is prepended to keys by
// URL.
func NewS3WithClient(api S3API, bucket, baseURL string) *S3 {
	return &S3{api: api, bucket: bucket, baseURL: strings.TrimRight(baseURL, "/")}
}

func publicBaseURL(cfg Config) string {
	if cfg.S3Endpoint != "" {
		ep := strings.TrimRight(cfg.S3Endpoint, "/")
		if cfg.S3PathStyle {
			return ep + "/" + cfg.S3Bucket
		}
		if u, err := url.Parse(ep); err == nil && u.Host != "" {
			return u.Scheme + "://" + cfg.S3Bucket + "." + u.Host
		}
		return ep + "/" + cfg.S3Bucket
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.S3Bucket, cfg.S3Region)
}

func (s *S3) Put(ctx context.Context, key string, r io.Reader, opts *PutOptions) (Object, error) {
	in := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   r,
	}
	obj := Object{Key: key, URL: s.URL(key), Size: -1}
	if opts != nil {
		if opts.ContentType != "" {
			in.ContentType = aws.String(opts.ContentType)
			obj.ContentType = opts.ContentType
		}
		if opts.Size >= 0 {
			in.ContentLength = aws.Int64(opts.Size)
			obj.Size = opts.Size
		}
	}

	if _, err := s.api.PutObject(ctx, in); err != nil {
		return Object{}, wrapAPIError("put object", err)
	}
	return obj, nil
}

func (s *S3) Delete(ctx context.Context, key string) error {
	_, err := s.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NoSuchKey" {
			return nil
		}
		return wrapAPIError("delete object", err)
	}
	return nil
}

func (s *S3) URL(key string) string {
	return s.baseURL + "/" + strings.TrimLeft(key, "/")
}

func wrapAPIError(op string, err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("s3 %s: %s: %w", op, apiErr.ErrorCode(), err)
	}
	return fmt.Errorf("s3 %s: %w", op, err)
}
