// Package s3 publishes heatmap snapshots to an S3-compatible bucket.
package s3

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"claimequity/internal/config"
	"claimequity/internal/port"
)

// snapshotCacheControl keeps CDNs from serving a stale chart for long.
const snapshotCacheControl = "public, max-age=60"

type snapshotClient struct {
	uploader *manager.Uploader
}

// NewSnapshotStore creates an S3-backed ObjectStorage for heatmap snapshots.
// A custom endpoint switches to path-style addressing (MinIO, LocalStack).
func NewSnapshotStore(ctx context.Context, cfg *config.S3Config) (port.ObjectStorage, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}

	return &snapshotClient{uploader: manager.NewUploader(s3.NewFromConfig(awsCfg, s3Opts...))}, nil
}

func (c *snapshotClient) Upload(ctx context.Context, input port.UploadInput) (*port.UploadOutput, error) {
	result, err := c.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(input.Bucket),
		Key:          aws.String(input.Key),
		Body:         input.Body,
		ContentType:  aws.String(input.ContentType),
		CacheControl: aws.String(snapshotCacheControl),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 upload: %w", err)
	}

	return &port.UploadOutput{
		Location: result.Location,
		ETag:     aws.ToString(result.ETag),
	}, nil
}
