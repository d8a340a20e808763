// Package s3 implements the object store primitives over Amazon S3 or an
// S3-compatible endpoint.
//
// As with the Azure backend, SDK-level retries are disabled so the
// engine's retry policy is the single retry layer.
package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/eodrift/satstore/internal/httpx"
	"github.com/eodrift/satstore/internal/logging"
	"github.com/eodrift/satstore/internal/storage"
)

// DefaultEndpointEnvVar names the environment variable holding an
// alternative S3 endpoint URL (MinIO and other S3-compatible stores).
// Credentials come from the standard AWS environment and config chain.
const DefaultEndpointEnvVar = "SATSTORE_S3_ENDPOINT"

// Config holds the recognized S3 backend options.
type Config struct {
	// Bucket is the bucket all operations scope to.
	Bucket string

	// EndpointEnvVar names the environment variable holding a custom
	// endpoint URL. Empty selects DefaultEndpointEnvVar; an unset
	// variable means the regular AWS endpoint.
	EndpointEnvVar string

	// Timeout bounds each single-object client call. Zero means no
	// deadline beyond the caller's context.
	Timeout time.Duration
}

// Store is an ObjectStore backed by one S3 bucket.
type Store struct {
	cfg      Config
	client   *s3.Client
	endpoint string
	log      *logging.Logger
}

// NewStore builds a Store using the AWS default credential chain and the
// optional endpoint override from the configured environment variable.
func NewStore(ctx context.Context, cfg Config, logger *logging.Logger) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3: bucket name is required")
	}

	envVar := cfg.EndpointEnvVar
	if envVar == "" {
		envVar = DefaultEndpointEnvVar
	}
	endpoint := os.Getenv(envVar)

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithHTTPClient(httpx.NewPooledClient()),
		awsconfig.WithRetryer(func() aws.Retryer { return aws.NopRetryer{} }),
	}

	// S3-compatible endpoints usually come with their own key pair rather
	// than the AWS credential chain.
	if ak, sk := os.Getenv("SATSTORE_S3_ACCESS_KEY"), os.Getenv("SATSTORE_S3_SECRET_KEY"); ak != "" && sk != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(ak, sk, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("s3: load config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	return &Store{cfg: cfg, client: client, endpoint: endpoint, log: logger}, nil
}

// Container returns the bound bucket name.
func (s *Store) Container() string {
	return s.cfg.Bucket
}

func (s *Store) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.Timeout > 0 {
		return context.WithTimeout(ctx, s.cfg.Timeout)
	}
	return ctx, func() {}
}

// Get opens an object for reading.
func (s *Store) Get(ctx context.Context, key string) (io.ReadCloser, int64, error) {
	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, 0, classify(err)
	}

	size := int64(-1)
	if resp.ContentLength != nil {
		size = *resp.ContentLength
	}
	return resp.Body, size, nil
}

// Put writes an object, replacing any existing one.
func (s *Store) Put(ctx context.Context, key string, r io.Reader, size int64) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	input := &s3.PutObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
		Body:   r,
	}
	if size >= 0 {
		input.ContentLength = aws.Int64(size)
	}

	_, err := s.client.PutObject(ctx, input)
	return classify(err)
}

// List returns every key starting with prefix.
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	input := &s3.ListObjectsV2Input{Bucket: aws.String(s.cfg.Bucket)}
	if prefix != "" {
		input.Prefix = aws.String(prefix)
	}

	keys := make([]string, 0)
	paginator := s3.NewListObjectsV2Paginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, classify(err)
		}
		for _, obj := range page.Contents {
			if obj.Key != nil {
				keys = append(keys, *obj.Key)
			}
		}
	}
	return keys, nil
}

// ListDelimited returns the immediate children of prefix using the "/"
// delimiter.
func (s *Store) ListDelimited(ctx context.Context, prefix string) ([]string, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	input := &s3.ListObjectsV2Input{
		Bucket:    aws.String(s.cfg.Bucket),
		Delimiter: aws.String("/"),
	}
	if prefix != "" {
		input.Prefix = aws.String(prefix + "/")
	}

	keys := make([]string, 0)
	paginator := s3.NewListObjectsV2Paginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, classify(err)
		}
		for _, obj := range page.Contents {
			if obj.Key != nil {
				keys = append(keys, *obj.Key)
			}
		}
		for _, p := range page.CommonPrefixes {
			if p.Prefix != nil {
				keys = append(keys, strings.TrimSuffix(*p.Prefix, "/"))
			}
		}
	}
	return keys, nil
}

// Delete removes a single object. S3 reports success for missing keys.
func (s *Store) Delete(ctx context.Context, key string) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	})
	return classify(err)
}

// URL returns the object's resolvable URL.
func (s *Store) URL(key string) string {
	if s.endpoint != "" {
		return strings.TrimSuffix(s.endpoint, "/") + "/" + s.cfg.Bucket + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.cfg.Bucket, key)
}

// Copy performs a server-side copy, mapping the requested tier onto an S3
// storage class. S3 copies complete synchronously for retrievable
// sources; archived (Glacier) sources must be restored first, which is
// the caller's responsibility, as with Azure rehydration.
func (s *Store) Copy(ctx context.Context, srcKey, dstKey string, opts storage.CopyOptions) error {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	} else {
		var cancel context.CancelFunc
		ctx, cancel = s.opCtx(ctx)
		defer cancel()
	}

	dstBucket := s.cfg.Bucket
	if opts.DstContainer != "" {
		dstBucket = opts.DstContainer
	}

	input := &s3.CopyObjectInput{
		Bucket:     aws.String(dstBucket),
		Key:        aws.String(dstKey),
		CopySource: aws.String(url.PathEscape(s.cfg.Bucket + "/" + srcKey)),
	}
	if opts.Tier != "" {
		class, err := mapStorageClass(opts.Tier)
		if err != nil {
			return err
		}
		input.StorageClass = class
	}

	_, err := s.client.CopyObject(ctx, input)
	return classify(err)
}

func mapStorageClass(tier storage.AccessTier) (types.StorageClass, error) {
	switch tier {
	case storage.TierHot:
		return types.StorageClassStandard, nil
	case storage.TierCool:
		return types.StorageClassStandardIa, nil
	case storage.TierArchive:
		return types.StorageClassGlacier, nil
	default:
		return "", fmt.Errorf("s3: unknown access tier %q", tier)
	}
}

// classify maps SDK errors to the storage taxonomy.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var noKey *types.NoSuchKey
	if errors.As(err, &noKey) {
		return fmt.Errorf("%v: %w", err, storage.ErrMissingObject)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound", "NoSuchBucket":
			return fmt.Errorf("%v: %w", err, storage.ErrMissingObject)
		case "RequestTimeout", "InternalError", "ServiceUnavailable", "SlowDown", "Throttling", "ThrottlingException":
			return storage.MarkTransient(err)
		}
		return err
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return storage.MarkTransient(err)
	}

	return err
}
