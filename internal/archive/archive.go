// Package archive copies generated forms to object storage.
package archive

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/nyaysetu/nyaysetu/internal/model"
)

// ErrNotConfigured is returned by New when no bucket is set.
var ErrNotConfigured = errors.New("archive: bucket not configured")

// Archive stores a rendered form and returns its object key.
type Archive interface {
	Store(ctx context.Context, form *model.FormArtifact) (string, error)
}

// Noop discards forms. Store always returns an empty key.
type Noop struct{}

func (Noop) Store(context.Context, *model.FormArtifact) (string, error) { return "", nil }

// Options configures the S3 archive.
type Options struct {
	Bucket    string
	Region    string
	Endpoint  string // empty for AWS, set for MinIO and friends
	AccessKey string
	SecretKey string
}

type putter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3 writes forms as plain-text objects.
type S3 struct {
	client putter
	bucket string
	logger *slog.Logger
}

// New builds an S3 archive. Static credentials are used when an access key is
// given, otherwise the default AWS credential chain applies.
func New(ctx context.Context, opts Options, logger *slog.Logger) (*S3, error) {
	if opts.Bucket == "" {
		return nil, ErrNotConfigured
	}
	if logger == nil {
		logger = slog.Default()
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(opts.Region)}
	if opts.AccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load object storage config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	return newWithClient(client, opts.Bucket, logger), nil
}

func newWithClient(client putter, bucket string, logger *slog.Logger) *S3 {
	return &S3{
		client: client,
		bucket: bucket,
		logger: logger.With("component", "archive", "bucket", bucket),
	}
}

// Store uploads the form content under ObjectKey(form).
func (a *S3) Store(ctx context.Context, form *model.FormArtifact) (string, error) {
	key := ObjectKey(form)

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        strings.NewReader(form.Content),
		ContentType: aws.String("text/plain; charset=utf-8"),
		Metadata: map[string]string{
			"form-type": form.FormType,
			"form-id":   form.ID,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to archive form %s: %w", form.ID, err)
	}

	a.logger.Debug("form archived", "form_id", form.ID, "key", key)
	return key, nil
}

// ObjectKey places forms under a date prefix and an owner digest so the
// address never appears in object names.
func ObjectKey(form *model.FormArtifact) string {
	d := form.CreatedAt.UTC()
	sum := sha256.Sum256([]byte(form.Owner))
	return fmt.Sprintf("forms/%s/%04d/%02d/%02d/%s-%s.txt",
		hex.EncodeToString(sum[:8]),
		d.Year(), d.Month(), d.Day(),
		strings.ToLower(form.FormType),
		form.ID,
	)
}
