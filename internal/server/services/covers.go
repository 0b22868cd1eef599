package services

import (
	"context"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/audiovote/internal/logging"
	sc "github.com/dmitrijs2005/audiovote/internal/server/config"
)

// s3CoverPrefix marks cover_image values that live in object storage.
const s3CoverPrefix = "s3://"

const coverURLExpiry = time.Hour

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// CoverResolver turns a stored cover_image value into a URL a browser can load.
type CoverResolver interface {
	Resolve(ctx context.Context, cover string) string
}

// PassthroughCovers returns cover values unchanged.
type PassthroughCovers struct{}

func (PassthroughCovers) Resolve(_ context.Context, cover string) string { return cover }

// S3Covers presigns "s3://<key>" covers against the configured bucket and
// passes every other value through.
type S3Covers struct {
	presign *s3.PresignClient
	bucket  string
	log     logging.Logger
}

// NewCoverResolver returns an S3Covers when a bucket is configured and
// PassthroughCovers otherwise.
func NewCoverResolver(ctx context.Context, cfg *sc.Config, log logging.Logger) (CoverResolver, error) {
	if cfg.S3Bucket == "" {
		return PassthroughCovers{}, nil
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.S3Region)}
	if cfg.S3RootUser != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3RootUser,
			cfg.S3RootPassword,
			"",
		)))
	}

	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Covers{
		presign: newS3PresignClient(client),
		bucket:  cfg.S3Bucket,
		log:     log.With("module", "covers"),
	}, nil
}

// Resolve falls back to the stored value if presigning fails.
func (c *S3Covers) Resolve(ctx context.Context, cover string) string {
	key, ok := strings.CutPrefix(cover, s3CoverPrefix)
	if !ok || key == "" {
		return cover
	}

	req, err := presignGetObject(c.presign, ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(coverURLExpiry))
	if err != nil {
		c.log.Warn(ctx, "failed to presign cover", "key", key, "error", err)
		return cover
	}
	return req.URL
}
