package archive

import (
	"bytes"
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"dcg/internal/pkg/logx"
)

// s3Archiver implements the Archiver interface against S3-compatible storage.
type s3Archiver struct {
	cfg      Config
	uploader *manager.Uploader
}

// newS3Archiver initializes the S3 client using a custom configuration that
// supports S3-compatible endpoints.
func newS3Archiver(cfg Config) (*s3Archiver, error) {
	sdkCfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKeyID,
			cfg.S3SecretAccessKey,
			"",
		)),
		config.WithRegion("auto"),
	)
	if err != nil {
		logx.Error(err, "Failed to load AWS SDK config")
		return nil, errors.New("failed to initialize S3 archiver configuration")
	}

	client := s3.NewFromConfig(sdkCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3Endpoint)
		o.UsePathStyle = true
	})

	return &s3Archiver{
		cfg:      cfg,
		uploader: manager.NewUploader(client),
	}, nil
}

// Store uploads the certificate PNG under the given object key.
func (a *s3Archiver) Store(ctx context.Context, key string, png []byte) error {
	_, err := a.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.cfg.S3BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(png),
		ContentType: aws.String("image/png"),
	})

	if err != nil {
		logx.Error(err, "S3 upload failed for certificate", "key", key)
		return errors.New("failed to archive certificate")
	}

	return nil
}
