/*
Package archive provides optional off-box archival of generated certificates.

When configured, every rendered certificate PNG is also uploaded to an
S3-compatible bucket. Archival is best-effort: a failed upload is logged and
never fails the generation itself, since the authoritative copy lives inline
on the student record.
*/
package archive

import (
	"context"
)

// Config holds the connection settings for the archival bucket.
type Config struct {
	S3BucketName      string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
}

// Archiver is the public interface for the certificate archival sink.
type Archiver interface {
	// Store uploads the PNG under the given object key.
	Store(ctx context.Context, key string, png []byte) error
}

// NewArchiver is the factory function for Archiver.
// Currently only S3-compatible storage is supported.
func NewArchiver(cfg Config) (Archiver, error) {
	return newS3Archiver(cfg)
}
