package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/eodrift/satstore/internal/logging"
	"github.com/eodrift/satstore/internal/progress"
	"github.com/eodrift/satstore/internal/retry"
	"github.com/eodrift/satstore/internal/util/filter"
)

// Engine implements the Driver contract on top of an ObjectStore.
//
// Files are processed sequentially, one at a time, in depth-first traversal
// order; any concurrency for a single object's bytes belongs to the
// underlying client. Every store call is wrapped by the retry policy.
// Recursive operations abort on the first unrecoverable per-file error;
// no partial-success report is accumulated.
//
// An Engine is bound to one container and holds no other mutable state, so
// it is safe to reuse across sequential calls. No internal locking is
// performed for concurrent use of the same instance.
type Engine struct {
	store    ObjectStore
	log      *logging.Logger
	reporter progress.Reporter
}

// NewEngine creates a driver engine over store. logger must not be nil.
func NewEngine(store ObjectStore, logger *logging.Logger) *Engine {
	return &Engine{
		store:    store,
		log:      logger,
		reporter: progress.Discard{},
	}
}

// SetReporter installs a progress reporter for transfers. nil restores the
// discarding default.
func (e *Engine) SetReporter(r progress.Reporter) {
	if r == nil {
		r = progress.Discard{}
	}
	e.reporter = r
}

// Store returns the underlying object store.
func (e *Engine) Store() ObjectStore {
	return e.store
}

// Container returns the container the engine is bound to.
func (e *Engine) Container() string {
	return e.store.Container()
}

// effectiveRetries maps the TransferOptions convention onto a concrete
// count: zero selects the default, negative disables retries.
func effectiveRetries(retries int) int {
	if retries == 0 {
		return retry.DefaultRetries
	}
	if retries < 0 {
		return 0
	}
	return retries
}

func (e *Engine) policy(retries int, op string) retry.Policy {
	return retry.Policy{
		Retries:   effectiveRetries(retries),
		Transient: IsTransient,
		OnRetry: func(attempt int, err error) {
			e.log.Warn().
				Str("op", op).
				Int("attempt", attempt).
				Err(err).
				Msg("transient failure, retrying")
		},
	}
}

// Exists reports whether any stored key matches path exactly or as a
// prefix followed by "/".
func (e *Engine) Exists(ctx context.Context, p string) (bool, error) {
	p = CleanKey(p)

	var keys []string
	err := e.policy(retry.DefaultRetries, "exists").Do(ctx, func() error {
		var lerr error
		keys, lerr = e.store.List(ctx, p)
		return lerr
	})
	if err != nil {
		return false, err
	}

	for _, k := range keys {
		if underPrefix(k, p) {
			return true, nil
		}
	}
	return false, nil
}

// ListFiles returns keys under prefix, sorted lexicographically. See
// ListOptions for recursive versus one-level semantics; the glob filter
// applies in both modes.
func (e *Engine) ListFiles(ctx context.Context, prefix string, opts ListOptions) ([]string, error) {
	prefix = CleanKey(prefix)

	var keys []string
	if opts.Recursive {
		err := e.policy(retry.DefaultRetries, "list").Do(ctx, func() error {
			var lerr error
			keys, lerr = e.store.List(ctx, prefix)
			return lerr
		})
		if err != nil {
			return nil, err
		}
	} else {
		err := e.policy(retry.DefaultRetries, "list").Do(ctx, func() error {
			var lerr error
			keys, lerr = e.store.ListDelimited(ctx, prefix)
			return lerr
		})
		if err != nil {
			return nil, err
		}

		if len(keys) == 0 {
			// The prefix names an exact object with no children, or nothing.
			ok, err := e.Exists(ctx, prefix)
			if err != nil {
				return nil, err
			}
			if ok {
				return []string{prefix}, nil
			}
			return []string{}, nil
		}
	}

	keys = filter.Apply(keys, opts.Glob)
	sort.Strings(keys)
	return keys, nil
}

// Delete removes every object whose key starts with prefix. Nothing
// matching is not an error.
func (e *Engine) Delete(ctx context.Context, prefix string) error {
	prefix = CleanKey(prefix)

	var keys []string
	err := e.policy(retry.DefaultRetries, "list").Do(ctx, func() error {
		var lerr error
		keys, lerr = e.store.List(ctx, prefix)
		return lerr
	})
	if err != nil {
		return err
	}

	for _, key := range keys {
		key := key
		err := e.policy(retry.DefaultRetries, "delete").Do(ctx, func() error {
			return e.store.Delete(ctx, key)
		})
		if err != nil {
			return fmt.Errorf("delete %s: %w", key, err)
		}
		e.log.Debug().Str("key", key).Msg("deleted")
	}
	return nil
}

// Rename moves a single object when the backend supports it.
func (e *Engine) Rename(ctx context.Context, src, dst string) error {
	r, ok := e.store.(Renamer)
	if !ok {
		return ErrRenameUnsupported
	}
	src, dst = CleanKey(src), CleanKey(dst)
	return e.policy(retry.DefaultRetries, "rename").Do(ctx, func() error {
		return r.Rename(ctx, src, dst)
	})
}

// Copy initiates a server-side tiered copy when the backend supports it.
// Fire-and-start: rehydration from archive completes asynchronously and
// overwriting a destination still rehydrating fails until it settles.
func (e *Engine) Copy(ctx context.Context, srcKey, dstKey string, opts CopyOptions) error {
	c, ok := e.store.(StoreCopier)
	if !ok {
		return ErrCopyUnsupported
	}
	srcKey, dstKey = CleanKey(srcKey), CleanKey(dstKey)
	return e.policy(retry.DefaultRetries, "copy").Do(ctx, func() error {
		return c.Copy(ctx, srcKey, dstKey, opts)
	})
}

// Download mirrors every object under prefix into localPath. Intermediate
// directories are created as needed; with Overwrite false an existing
// local file is skipped without touching the store.
func (e *Engine) Download(ctx context.Context, prefix, localPath string, opts TransferOptions) error {
	if localPath == "" {
		localPath = "."
	}

	keys, err := e.ListFiles(ctx, prefix, ListOptions{Recursive: true})
	if err != nil {
		return err
	}

	for _, key := range keys {
		outPath := filepath.Join(localPath, filepath.FromSlash(key))
		if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			return err
		}

		if !opts.Overwrite {
			if _, err := os.Stat(outPath); err == nil {
				e.log.Debug().Str("path", outPath).Msg("exists locally, skipping")
				continue
			}
		}

		e.log.Info().Str("key", key).Str("path", outPath).Msg("downloading")
		if err := e.downloadFile(ctx, key, outPath, opts.Retries); err != nil {
			return fmt.Errorf("download %s: %w", key, err)
		}
	}
	return nil
}

// downloadFile streams one object into outPath, truncating on each
// attempt. When retries are exhausted the partially written file is
// removed (best-effort) so no corrupt truncated file is left behind.
func (e *Engine) downloadFile(ctx context.Context, key, outPath string, retries int) error {
	err := e.policy(retries, "download").Do(ctx, func() error {
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close()

		rc, size, err := e.store.Get(ctx, key)
		if err != nil {
			return err
		}
		defer rc.Close()

		e.reporter.Start(size, key)
		_, err = io.Copy(io.MultiWriter(f, reporterWriter{e.reporter}), rc)
		e.reporter.Finish()
		return err
	})
	if err != nil {
		_ = os.Remove(outPath)
		return err
	}
	return nil
}

// Upload mirrors a local file or directory tree under remotePrefix and
// returns the canonical locator of every leaf, in traversal order.
//
// A directory root contributes its base name to every destination key,
// mirroring the tree as remotePrefix/<rootName>/<relative path>. A file
// root uploads as remotePrefix/<fileName>.
func (e *Engine) Upload(ctx context.Context, localPath, remotePrefix string, opts TransferOptions) ([]string, error) {
	info, err := os.Stat(localPath)
	if err != nil {
		return nil, err
	}

	locators := make([]string, 0, 1)
	err = e.uploadWalk(ctx, localPath, CleanKey(remotePrefix), "", info.IsDir(), opts, &locators)
	if err != nil {
		return nil, err
	}
	return locators, nil
}

// uploadWalk descends depth-first from localRoot. carry is the
// accumulated sub-path relative to localRoot, threaded explicitly down
// the recursion and never caller-supplied.
func (e *Engine) uploadWalk(ctx context.Context, localRoot, remotePrefix, carry string, rootIsDir bool, opts TransferOptions, locators *[]string) error {
	target := filepath.Join(localRoot, filepath.FromSlash(carry))
	info, err := os.Stat(target)
	if err != nil {
		return err
	}

	if info.IsDir() {
		entries, err := os.ReadDir(target)
		if err != nil {
			return err
		}
		// os.ReadDir sorts by name, keeping traversal order deterministic.
		for _, entry := range entries {
			childCarry := JoinKey(carry, entry.Name())
			if err := e.uploadWalk(ctx, localRoot, remotePrefix, childCarry, rootIsDir, opts, locators); err != nil {
				return err
			}
		}
		return nil
	}

	rootName := ""
	if rootIsDir {
		rootName = filepath.Base(localRoot)
	}
	dest := JoinKey(remotePrefix, rootName, ParentKey(carry), info.Name())

	if !opts.Overwrite {
		ok, err := e.Exists(ctx, dest)
		if err != nil {
			return err
		}
		if ok {
			e.log.Debug().Str("key", dest).Msg("exists remotely, skipping")
			*locators = append(*locators, e.store.URL(dest))
			return nil
		}
	}

	e.log.Info().Str("path", target).Str("key", dest).Msg("uploading")
	if err := e.uploadFile(ctx, target, dest, info.Size(), opts.Retries); err != nil {
		return fmt.Errorf("upload %s: %w", dest, err)
	}
	*locators = append(*locators, e.store.URL(dest))
	return nil
}

// uploadFile writes one local file to key, re-reading from the start on
// every attempt. Remote partial writes are not cleaned up; the next
// attempt overwrites the object in place.
func (e *Engine) uploadFile(ctx context.Context, localPath, key string, size int64, retries int) error {
	f, err := os.Open(localPath)
	if err != nil {
		return err
	}
	defer f.Close()

	return e.policy(retries, "upload").Do(ctx, func() error {
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return err
		}
		e.reporter.Start(size, key)
		err := e.store.Put(ctx, key, io.TeeReader(f, reporterWriter{e.reporter}), size)
		e.reporter.Finish()
		return err
	})
}

// reporterWriter adapts a progress.Reporter to io.Writer for use with
// TeeReader / MultiWriter.
type reporterWriter struct {
	r progress.Reporter
}

func (w reporterWriter) Write(p []byte) (int, error) {
	w.r.Add(int64(len(p)))
	return len(p), nil
}
