package media

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/platinummonkey/rococo/pkg/media")

const refScheme = "s3://"

// S3Config configures the S3 photo store
type S3Config struct {
	Endpoint     string
	Region       string
	Bucket       string
	AccessKey    string
	SecretKey    string
	UsePathStyle bool
	MaxBytes     int
}

// objectAPI is the part of *s3.Client the store uses
type objectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// S3Store uploads decoded photos to a bucket under content-addressed keys.
// Rows keep "s3://bucket/key"; anything else is returned by Load unchanged,
// so rows written by InlineStore stay readable.
type S3Store struct {
	client   objectAPI
	bucket   string
	maxBytes int
}

// NewS3Store creates an S3 client, making sure the bucket exists
func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	var awsConfig aws.Config
	var err error

	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		// Static credentials for MinIO or explicit keys
		awsConfig, err = config.LoadDefaultConfig(ctx,
			config.WithRegion(cfg.Region),
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				cfg.AccessKey,
				cfg.SecretKey,
				"",
			)),
		)
	} else {
		awsConfig, err = config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	if err := createBucketIfNotExists(ctx, client, cfg.Bucket); err != nil {
		return nil, fmt.Errorf("failed to ensure bucket exists: %w", err)
	}

	return newS3Store(client, cfg.Bucket, cfg.MaxBytes), nil
}

func newS3Store(client objectAPI, bucket string, maxBytes int) *S3Store {
	return &S3Store{client: client, bucket: bucket, maxBytes: maxBytes}
}

// Save uploads the photo unless an identical one is already stored
func (s *S3Store) Save(ctx context.Context, dataURL string) (_ string, err error) {
	photo, err := ParsePhoto(dataURL, s.maxBytes)
	if err != nil {
		return "", err
	}

	hash := sha256.Sum256(photo.Data)
	hashStr := hex.EncodeToString(hash[:])
	key := fmt.Sprintf("photos/sha256/%s/%s", hashStr[:2], hashStr[2:])

	ctx, span := tracer.Start(ctx, "S3.Save",
		trace.WithAttributes(
			attribute.String("s3.bucket", s.bucket),
			attribute.String("s3.key", key),
			attribute.Int("content.size", len(photo.Data)),
			attribute.String("content.type", photo.MIME),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	exists, err := s.objectExists(ctx, key)
	if err != nil {
		return "", err
	}
	span.SetAttributes(attribute.Bool("deduplication.hit", exists))

	if !exists {
		_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(s.bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(photo.Data),
			ContentType: aws.String(photo.MIME),
			Metadata: map[string]string{
				"checksum-sha256": hashStr,
			},
		})
		if err != nil {
			return "", fmt.Errorf("failed to upload to s3: %w", err)
		}
	}

	return refScheme + s.bucket + "/" + key, nil
}

// Load downloads a stored photo and returns it as a data URL
func (s *S3Store) Load(ctx context.Context, ref string) (_ string, err error) {
	if !strings.HasPrefix(ref, refScheme) {
		return ref, nil
	}
	bucket, key, ok := strings.Cut(strings.TrimPrefix(ref, refScheme), "/")
	if !ok || key == "" {
		return "", fmt.Errorf("invalid photo reference: %s", ref)
	}

	ctx, span := tracer.Start(ctx, "S3.Load",
		trace.WithAttributes(
			attribute.String("s3.bucket", bucket),
			attribute.String("s3.key", key),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return "", fmt.Errorf("failed to get object from s3: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read object: %w", err)
	}

	mime := aws.ToString(out.ContentType)
	if mime == "" {
		mime = "application/octet-stream"
	}
	return EncodeDataURL(mime, data), nil
}

func (s *S3Store) objectExists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFoundError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check object existence: %w", err)
	}
	return true, nil
}

func createBucketIfNotExists(ctx context.Context, client *s3.Client, bucket string) error {
	if _, err := client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)}); err == nil {
		return nil
	}

	_, err := client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(bucket)})
	if err != nil {
		var owned *types.BucketAlreadyOwnedByYou
		var exists *types.BucketAlreadyExists
		if errors.As(err, &owned) || errors.As(err, &exists) {
			return nil
		}
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

func isNotFoundError(err error) bool {
	var notFound *types.NotFound
	var noSuchKey *types.NoSuchKey
	return errors.As(err, &notFound) || errors.As(err, &noSuchKey)
}
