// Package azure implements the object store primitives over Azure Blob
// Storage.
//
// SDK-level retries are disabled so the engine's retry policy is the
// single retry layer; the SDK would otherwise retry transient failures
// on its own and multiply the configured attempt count.
package azure

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	azlog "github.com/Azure/azure-sdk-for-go/sdk/azcore/log"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blockblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/container"

	"github.com/eodrift/satstore/internal/httpx"
	"github.com/eodrift/satstore/internal/logging"
	"github.com/eodrift/satstore/internal/storage"
)

// DefaultConnectionEnvVar is the environment variable holding the Azure
// connection string when the configuration does not name another one.
const DefaultConnectionEnvVar = "AZURE_STORAGE_CONNECTION_STRING"

// Config holds the recognized Azure backend options.
type Config struct {
	// Container is the container all operations scope to.
	Container string

	// ConnectionEnvVar names the environment variable holding the
	// connection string. Empty selects DefaultConnectionEnvVar.
	ConnectionEnvVar string

	// Timeout bounds each single-object client call. Zero means no
	// deadline beyond the caller's context.
	Timeout time.Duration

	// Concurrency is the block-level concurrency hint for a single
	// object's upload. Zero selects the SDK default.
	Concurrency int
}

// Store is an ObjectStore backed by one Azure Blob container.
// Constructed once per process and bound to one container and client;
// it holds no other mutable state.
type Store struct {
	cfg       Config
	client    *azblob.Client
	container *container.Client
	log       *logging.Logger
}

// NewStore builds a Store from the connection string in the configured
// environment variable.
func NewStore(cfg Config, logger *logging.Logger) (*Store, error) {
	if cfg.Container == "" {
		return nil, errors.New("azure: container name is required")
	}

	envVar := cfg.ConnectionEnvVar
	if envVar == "" {
		envVar = DefaultConnectionEnvVar
	}
	connStr := os.Getenv(envVar)
	if connStr == "" {
		return nil, fmt.Errorf("azure: environment variable %s is not set", envVar)
	}

	client, err := azblob.NewClientFromConnectionString(connStr, &azblob.ClientOptions{
		ClientOptions: azcore.ClientOptions{
			Retry: policy.RetryOptions{
				MaxRetries: -1, // engine retry policy is the only retry layer
			},
			Transport: httpx.NewPooledClient(),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("azure: create client: %w", err)
	}

	return &Store{
		cfg:       cfg,
		client:    client,
		container: client.ServiceClient().NewContainerClient(cfg.Container),
		log:       logger,
	}, nil
}

// EnableSDKLogging forwards the SDK's diagnostic output to the process
// logger at debug level. Called once at startup when verbose output is
// requested, never by store construction.
func EnableSDKLogging(logger *logging.Logger) {
	azlog.SetListener(func(event azlog.Event, msg string) {
		logger.Debug().Str("event", string(event)).Msg(msg)
	})
}

// Container returns the bound container name.
func (s *Store) Container() string {
	return s.cfg.Container
}

// opCtx applies the configured per-call timeout, if any.
func (s *Store) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.Timeout > 0 {
		return context.WithTimeout(ctx, s.cfg.Timeout)
	}
	return ctx, func() {}
}

// Get opens a blob for reading.
func (s *Store) Get(ctx context.Context, key string) (io.ReadCloser, int64, error) {
	// No timeout wrapper here: the body outlives the call and a deadline
	// would cancel the stream mid-read.
	resp, err := s.container.NewBlobClient(key).DownloadStream(ctx, nil)
	if err != nil {
		return nil, 0, classify(err)
	}

	size := int64(-1)
	if resp.ContentLength != nil {
		size = *resp.ContentLength
	}
	return resp.Body, size, nil
}

// Put writes a block blob, replacing any existing one.
func (s *Store) Put(ctx context.Context, key string, r io.Reader, size int64) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	var opts *blockblob.UploadStreamOptions
	if s.cfg.Concurrency > 0 {
		opts = &blockblob.UploadStreamOptions{Concurrency: s.cfg.Concurrency}
	}

	_, err := s.container.NewBlockBlobClient(key).UploadStream(ctx, r, opts)
	return classify(err)
}

// List returns every blob name starting with prefix.
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	var opts *container.ListBlobsFlatOptions
	if prefix != "" {
		opts = &container.ListBlobsFlatOptions{Prefix: &prefix}
	}

	keys := make([]string, 0)
	pager := s.container.NewListBlobsFlatPager(opts)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, classify(err)
		}
		for _, item := range page.Segment.BlobItems {
			if item.Name != nil {
				keys = append(keys, *item.Name)
			}
		}
	}
	return keys, nil
}

// ListDelimited returns the immediate children of prefix using the "/"
// delimiter: blob names and virtual directory names without the trailing
// slash the service reports.
func (s *Store) ListDelimited(ctx context.Context, prefix string) ([]string, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	var opts *container.ListBlobsHierarchyOptions
	if prefix != "" {
		p := prefix + "/"
		opts = &container.ListBlobsHierarchyOptions{Prefix: &p}
	}

	keys := make([]string, 0)
	pager := s.container.NewListBlobsHierarchyPager("/", opts)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, classify(err)
		}
		for _, item := range page.Segment.BlobItems {
			if item.Name != nil {
				keys = append(keys, *item.Name)
			}
		}
		for _, p := range page.Segment.BlobPrefixes {
			if p.Name != nil {
				keys = append(keys, strings.TrimSuffix(*p.Name, "/"))
			}
		}
	}
	return keys, nil
}

// Delete removes a single blob.
func (s *Store) Delete(ctx context.Context, key string) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	_, err := s.container.NewBlobClient(key).Delete(ctx, nil)
	return classify(err)
}

// URL returns the blob's resolvable URL.
func (s *Store) URL(key string) string {
	return s.container.NewBlobClient(key).URL()
}

// Copy initiates a server-side copy of srcKey to dstKey, requesting the
// destination tier and, for archived sources, a rehydrate priority. The
// call returns once the copy is started; completion is asynchronous.
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

	dstContainer := s.container
	if opts.DstContainer != "" && opts.DstContainer != s.cfg.Container {
		dstContainer = s.client.ServiceClient().NewContainerClient(opts.DstContainer)
	}

	copyOpts := &blob.StartCopyFromURLOptions{}
	if opts.Tier != "" {
		tier, err := mapTier(opts.Tier)
		if err != nil {
			return err
		}
		copyOpts.Tier = &tier
	}
	if opts.RehydratePriority != "" {
		prio, err := mapRehydratePriority(opts.RehydratePriority)
		if err != nil {
			return err
		}
		copyOpts.RehydratePriority = &prio
	}

	srcURL := s.container.NewBlobClient(srcKey).URL()
	_, err := dstContainer.NewBlobClient(dstKey).StartCopyFromURL(ctx, srcURL, copyOpts)
	return classify(err)
}

func mapTier(tier storage.AccessTier) (blob.AccessTier, error) {
	switch tier {
	case storage.TierHot:
		return blob.AccessTierHot, nil
	case storage.TierCool:
		return blob.AccessTierCool, nil
	case storage.TierArchive:
		return blob.AccessTierArchive, nil
	default:
		return "", fmt.Errorf("azure: unknown access tier %q", tier)
	}
}

func mapRehydratePriority(p storage.RehydratePriority) (blob.RehydratePriority, error) {
	switch p {
	case storage.RehydrateStandard:
		return blob.RehydratePriorityStandard, nil
	case storage.RehydrateHigh:
		return blob.RehydratePriorityHigh, nil
	default:
		return "", fmt.Errorf("azure: unknown rehydrate priority %q", p)
	}
}

// classify maps SDK errors to the storage taxonomy: missing blobs wrap
// ErrMissingObject, service-level and connection failures are marked
// transient, everything else propagates unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}

	if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
		return fmt.Errorf("%v: %w", err, storage.ErrMissingObject)
	}

	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		switch {
		case respErr.StatusCode == 408,
			respErr.StatusCode == 429,
			respErr.StatusCode >= 500:
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
