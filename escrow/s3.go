package escrow

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/keywarden/keywarden/interfaces"
)

// S3Sink escrows key copies to an S3 or S3-compatible bucket.
type S3Sink struct {
	client *s3.S3
	bucket string
	prefix string
	log    *slog.Logger
}

// S3Config configures an S3 escrow sink.
type S3Config struct {
	Bucket    string
	Prefix    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// NewS3Sink creates an S3 escrow sink. Static credentials are optional;
// without them the AWS SDK's default credential chain applies.
func NewS3Sink(cfg S3Config, log *slog.Logger) (*S3Sink, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("empty escrow bucket name")
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg := aws.Config{
		Region: aws.String(region),
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}

	sess, err := session.NewSession(&awsCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &S3Sink{
		client: s3.New(sess),
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
		log:    log,
	}, nil
}

// ExportKey uploads a copy of the key material to the escrow bucket.
func (s *S3Sink) ExportKey(ctx context.Context, id interfaces.KeyID, material []byte) error {
	start := time.Now()
	key := path.Join(s.prefix, id.String()+".escrow")

	_, err := s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(material),
	})
	if err != nil {
		s.log.Error("Failed to escrow key to S3",
			slog.String("keyID", id.String()),
			slog.String("bucket", s.bucket),
			"err", err)
		return fmt.Errorf("failed to escrow key to S3: %w", err)
	}

	s.log.Info("Escrowed key to S3",
		slog.String("keyID", id.String()),
		slog.String("bucket", s.bucket),
		slog.Duration("duration", time.Since(start)))
	return nil
}

// Name returns identifier for logging.
func (s *S3Sink) Name() string {
	return fmt.Sprintf("s3-escrow-%s", s.bucket)
}
