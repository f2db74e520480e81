// utils/r2.go
package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"finquest-progression/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Archive stores JSON documents and returns their public URL.
type Archive interface {
	PutJSON(ctx context.Context, key string, v any) (string, error)
}

// R2Archive writes to a Cloudflare R2 bucket through the S3 API.
type R2Archive struct {
	client     *s3.Client
	bucket     string
	cdnBaseURL string
}

// NewR2Archive builds an archive client from cfg.
func NewR2Archive(ctx context.Context, cfg config.R2Config) (*R2Archive, error) {
	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID, cfg.AccessKeySecret, "",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load R2 config: %w", err)
	}

	cdn := cfg.CDNBaseURL
	if cdn == "" {
		cdn = endpoint + "/" + cfg.Bucket
	}

	return &R2Archive{
		client: s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}),
		bucket:     cfg.Bucket,
		cdnBaseURL: strings.TrimRight(cdn, "/"),
	}, nil
}

// PutJSON uploads v as JSON under key and returns its public URL.
func (a *R2Archive) PutJSON(ctx context.Context, key string, v any) (string, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode %s: %w", key, err)
	}

	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(a.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(body),
		ContentType:  aws.String("application/json"),
		CacheControl: aws.String("public, max-age=300"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to R2: %w", err)
	}
	return PublicURL(a.cdnBaseURL, key), nil
}

// PublicURL joins a CDN base and an object key.
func PublicURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}

// SnapshotKey is the object key of a leaderboard snapshot.
func SnapshotKey(kind string, builtAt time.Time) string {
	return fmt.Sprintf("leaderboards/%s/%s.json", kind, builtAt.UTC().Format("20060102T150405Z"))
}
