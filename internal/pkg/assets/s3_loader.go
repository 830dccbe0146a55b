package assets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ar-storefront-be/pkg/ar"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

type S3Config struct {
	Bucket        string
	Region        string
	Endpoint      string
	AccessKey     string
	SecretKey     string
	PresignExpiry time.Duration
}

// S3Loader serves models from an S3 compatible bucket through presigned URLs.
type S3Loader struct {
	client        *s3.Client
	presignClient *s3.PresignClient
	bucket        string
	expiry        time.Duration
}

func NewS3Loader(ctx context.Context, cfg S3Config) (*S3Loader, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("asset bucket is required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	expiry := cfg.PresignExpiry
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}

	return &S3Loader{
		client:        client,
		presignClient: s3.NewPresignClient(client),
		bucket:        cfg.Bucket,
		expiry:        expiry,
	}, nil
}

// Load accepts a bare key or an s3://bucket/key reference for the configured bucket.
func (l *S3Loader) Load(ctx context.Context, ref string) (*ar.Asset, error) {
	key := strings.TrimPrefix(ref, "s3://"+l.bucket+"/")
	key = strings.TrimPrefix(key, "/")
	if key == "" {
		return nil, ErrAssetNotFound
	}

	head, err := l.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(l.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *types.NotFound
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &notFound) || errors.As(err, &noSuchKey) {
			return nil, fmt.Errorf("%w: s3://%s/%s", ErrAssetNotFound, l.bucket, key)
		}
		return nil, fmt.Errorf("failed to check asset %s: %w", key, err)
	}

	presigned, err := l.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(l.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(l.expiry))
	if err != nil {
		return nil, fmt.Errorf("failed to presign asset %s: %w", key, err)
	}

	return &ar.Asset{
		Ref:         ref,
		URL:         presigned.URL,
		ContentType: aws.ToString(head.ContentType),
		Size:        aws.ToInt64(head.ContentLength),
	}, nil
}
