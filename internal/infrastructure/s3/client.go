package s3infra

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/go-push-worker/internal/config"
)

// deleteBatch is the DeleteObjects per-request limit.
const deleteBatch = 1000

// NewClient creates an S3 client. When cfg.AWSEndpointURL is set (LocalStack),
// it overrides the endpoint and enables path-style addressing.
func NewClient(ctx context.Context, cfg *config.Config) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.AWSRegion),
	}
	if cfg.AWSAccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config for S3: %w", err)
	}

	var clientOpts []func(*s3.Options)
	if cfg.AWSEndpointURL != "" {
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.AWSEndpointURL)
			o.UsePathStyle = true
		})
	}
	return s3.NewFromConfig(awsCfg, clientOpts...), nil
}

// objectAPI is the subset of the S3 client the asset cache uses.
type objectAPI interface {
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	DeleteObjects(ctx context.Context, in *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
}

// AssetCache is the precached asset store of the web app. Objects live under
// <prefix>/<version>/<path>; entries of any version but the running one are stale.
type AssetCache struct {
	client objectAPI
	bucket string
	prefix string
}

// NewAssetCache creates an AssetCache over bucket/prefix.
func NewAssetCache(client objectAPI, bucket, prefix string) *AssetCache {
	return &AssetCache{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

// PurgeOutdated deletes every cached object that does not belong to currentVersion
// and returns how many were removed.
func (c *AssetCache) PurgeOutdated(ctx context.Context, currentVersion string) (int, error) {
	root := c.prefix + "/"
	keep := root + currentVersion + "/"

	var stale []types.ObjectIdentifier
	paginator := s3.NewListObjectsV2Paginator(c.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(c.bucket),
		Prefix: aws.String(root),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return 0, fmt.Errorf("s3 list objects: %w", err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if !strings.HasPrefix(key, keep) {
				stale = append(stale, types.ObjectIdentifier{Key: obj.Key})
			}
		}
	}

	deleted := 0
	for start := 0; start < len(stale); start += deleteBatch {
		end := min(start+deleteBatch, len(stale))
		out, err := c.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(c.bucket),
			Delete: &types.Delete{Objects: stale[start:end], Quiet: aws.Bool(true)},
		})
		if err != nil {
			return deleted, fmt.Errorf("s3 delete objects: %w", err)
		}
		for _, e := range out.Errors {
			slog.Warn("could not delete cached asset", "key", aws.ToString(e.Key), "err", aws.ToString(e.Message))
		}
		deleted += end - start - len(out.Errors)
	}
	return deleted, nil
}
