// Package storage defines the storage driver contract and the recursive
// transfer engine shared by every backend.
//
// A Driver exposes the capability set callers program against. The Engine
// implements that contract generically on top of the much smaller
// ObjectStore primitive interface, so backends only provide single-object
// operations and inherit recursion, retry, glob filtering, and the
// blob-versus-virtual-directory listing semantics.
package storage

import (
	"context"
	"io"
	"time"

	"github.com/eodrift/satstore/internal/retry"
)

// Driver is the capability set every backend supports.
// Download, Upload and Delete are recursive by default.
type Driver interface {
	// Download mirrors every object under prefix into localPath, creating
	// intermediate directories as needed.
	Download(ctx context.Context, prefix, localPath string, opts TransferOptions) error

	// Upload mirrors a local file or directory tree under remotePrefix and
	// returns one canonical locator per uploaded leaf, in traversal order.
	Upload(ctx context.Context, localPath, remotePrefix string, opts TransferOptions) ([]string, error)

	// Delete removes every object whose key starts with prefix.
	// Deleting a prefix that matches nothing is not an error.
	Delete(ctx context.Context, prefix string) error

	// Exists reports whether any stored key matches path exactly or has
	// path as a prefix followed by "/".
	Exists(ctx context.Context, path string) (bool, error)

	// ListFiles returns keys under prefix, sorted lexicographically.
	ListFiles(ctx context.Context, prefix string, opts ListOptions) ([]string, error)

	// Rename moves a single object. Part of the contract; backends without
	// a native rename return ErrRenameUnsupported.
	Rename(ctx context.Context, src, dst string) error
}

// Copier is the backend-specific copy/tier extension. Not part of the
// minimal contract; backends without server-side copy simply do not
// implement it.
type Copier interface {
	// Copy initiates a server-side copy of srcKey to dstKey, requesting the
	// destination tier in opts. Fire-and-start: completion (in particular
	// rehydration from an archive tier) is asynchronous on the backend side
	// and is not awaited here.
	Copy(ctx context.Context, srcKey, dstKey string, opts CopyOptions) error
}

// TransferOptions controls upload and download behavior.
type TransferOptions struct {
	// Overwrite controls whether an already-present target is rewritten.
	// When false, transferring onto an existing target is a silent no-op.
	// Defaults differ per direction: downloads default to false, uploads
	// to true (see DefaultDownloadOptions / DefaultUploadOptions).
	Overwrite bool

	// Retries is the per-object retry count after the first failure.
	// Zero selects retry.DefaultRetries; negative disables retries.
	Retries int
}

// DefaultDownloadOptions returns the download defaults: keep existing
// local files, one retry per object.
func DefaultDownloadOptions() TransferOptions {
	return TransferOptions{Overwrite: false, Retries: retry.DefaultRetries}
}

// DefaultUploadOptions returns the upload defaults: overwrite remote
// objects, one retry per object.
func DefaultUploadOptions() TransferOptions {
	return TransferOptions{Overwrite: true, Retries: retry.DefaultRetries}
}

// ListOptions controls ListFiles.
type ListOptions struct {
	// Glob, when non-empty, post-filters results (applies in both
	// recursive and non-recursive mode).
	Glob string

	// Recursive lists every object under the prefix regardless of depth.
	// Non-recursive listing returns only immediate children, except that a
	// prefix which is itself an exact object with no children lists as
	// exactly itself.
	Recursive bool
}

// AccessTier selects the destination storage tier for a copy.
type AccessTier string

const (
	TierHot     AccessTier = "hot"
	TierCool    AccessTier = "cool"
	TierArchive AccessTier = "archive"
)

// RehydratePriority selects how urgently an archived source is rehydrated.
type RehydratePriority string

const (
	RehydrateStandard RehydratePriority = "standard"
	RehydrateHigh     RehydratePriority = "high"
)

// CopyOptions enumerates the recognized copy parameters. Extra is the
// narrow escape hatch for backend-specific settings that have no
// first-class field.
type CopyOptions struct {
	// DstContainer names a destination container different from the one
	// the driver is bound to. Empty means same container.
	DstContainer string

	// Tier is the requested destination storage tier.
	Tier AccessTier

	// RehydratePriority applies when the source sits in an archive tier.
	RehydratePriority RehydratePriority

	// Timeout bounds the copy-start call. Zero means the backend default.
	Timeout time.Duration

	// Concurrency is a hint passed through to the backend client.
	Concurrency int

	// Extra carries backend-specific options by name.
	Extra map[string]string
}

// ObjectStore is the primitive surface a backend implements. Keys are
// forward-slash-delimited relative paths inside one container bound at
// construction. Failures that should be retried must classify as
// transient under IsTransient.
type ObjectStore interface {
	// Container returns the container name the store is bound to.
	Container() string

	// Get opens an object for reading and returns its size when known
	// (otherwise -1). A missing object wraps ErrMissingObject.
	Get(ctx context.Context, key string) (io.ReadCloser, int64, error)

	// Put writes an object, replacing any existing one. size may be -1
	// when unknown.
	Put(ctx context.Context, key string, r io.Reader, size int64) error

	// List returns every key starting with prefix, in no guaranteed order.
	List(ctx context.Context, prefix string) ([]string, error)

	// ListDelimited returns the immediate children of prefix (one level,
	// "/" delimiter): object keys and virtual directory names without a
	// trailing slash.
	ListDelimited(ctx context.Context, prefix string) ([]string, error)

	// Delete removes a single object. Backends that can detect a missing
	// object wrap ErrMissingObject; others succeed silently.
	Delete(ctx context.Context, key string) error

	// URL returns the canonical locator for a key.
	URL(key string) string
}

// Renamer is an optional ObjectStore extension for backends with a
// native or emulated single-object rename.
type Renamer interface {
	Rename(ctx context.Context, src, dst string) error
}

// StoreCopier is an optional ObjectStore extension for server-side copy.
type StoreCopier interface {
	Copy(ctx context.Context, srcKey, dstKey string, opts CopyOptions) error
}
