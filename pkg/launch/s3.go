package launch

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/ruslano69/launchdash/pkg/retry"
)

// S3Config - параметры доступа к объектному хранилищу для Path вида s3://bucket/key.
// Пустые ключи = стандартная цепочка AWS (env, профиль, IMDS).
type S3Config struct {
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"` // MinIO и совместимые; включает path-style
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

func isS3URL(path string) bool {
	return strings.HasPrefix(strings.ToLower(path), "s3://")
}

// parseS3URL разбирает s3://bucket/key
func parseS3URL(raw string) (bucket, key string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("invalid s3 url %q: %w", raw, err)
	}
	if !strings.EqualFold(u.Scheme, "s3") || u.Host == "" {
		return "", "", fmt.Errorf("invalid s3 url %q: want s3://bucket/key", raw)
	}
	key = strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return "", "", fmt.Errorf("invalid s3 url %q: empty key", raw)
	}
	return u.Host, key, nil
}

func newS3Client(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// fetchS3WithRetry скачивает объект целиком в память
func fetchS3WithRetry(ctx context.Context, cfg SourceConfig) ([]byte, error) {
	bucket, key, err := parseS3URL(cfg.Path)
	if err != nil {
		return nil, err
	}

	client, err := newS3Client(ctx, cfg.S3)
	if err != nil {
		return nil, err
	}

	r, err := retrier(cfg)
	if err != nil {
		return nil, err
	}

	downloader := manager.NewDownloader(client)
	var data []byte

	err = r.Do(ctx, func(ctx context.Context) error {
		buf := manager.NewWriteAtBuffer(nil)
		_, err := downloader.Download(ctx, buf, &s3.GetObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			var nsk *types.NoSuchKey
			var nsb *types.NoSuchBucket
			if errors.As(err, &nsk) || errors.As(err, &nsb) {
				return retry.Permanent(fmt.Errorf("s3 object %s/%s: %w", bucket, key, err))
			}
			return fmt.Errorf("s3 download %s/%s: %w", bucket, key, err)
		}
		data = buf.Bytes()
		return nil
	})
	return data, err
}
