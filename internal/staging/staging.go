// Package staging downloads scene products from S3 into the local work
// directory ahead of conversion.
package staging

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"espaform/internal/config"
	"espaform/internal/services"
)

// ProgressUpdate reports a single object download.
type ProgressUpdate struct {
	Key   string
	Index int
	Total int
}

// ObjectStore is the narrow S3 surface the fetcher needs.
type ObjectStore interface {
	List(ctx context.Context, prefix string) ([]string, error)
	Download(ctx context.Context, key string, dst io.Writer) (int64, error)
	Check(ctx context.Context) error
}

// Option configures the fetcher.
type Option func(*Fetcher)

// WithObjectStore injects a custom object store (primarily for tests).
func WithObjectStore(store ObjectStore) Option {
	return func(f *Fetcher) {
		if store != nil {
			f.store = store
		}
	}
}

// Fetcher downloads a scene product (metadata XML plus referenced band
// files) into a local scene directory.
type Fetcher struct {
	store  ObjectStore
	bucket string
	prefix string
}

// NewFetcher constructs a fetcher from staging configuration.
func NewFetcher(ctx context.Context, cfg *config.Config, opts ...Option) (*Fetcher, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "staging", "configure fetcher", "config required", nil)
	}
	bucket := strings.TrimSpace(cfg.Staging.Bucket)
	if bucket == "" {
		return nil, services.Wrap(services.ErrConfiguration, "staging", "configure fetcher", "staging bucket not configured", nil)
	}

	fetcher := &Fetcher{
		bucket: bucket,
		prefix: strings.Trim(cfg.Staging.Prefix, "/"),
	}
	for _, opt := range opts {
		opt(fetcher)
	}
	if fetcher.store == nil {
		store, err := newS3Store(ctx, bucket, cfg.Staging.Region)
		if err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "staging", "configure fetcher", "", err)
		}
		fetcher.store = store
	}
	return fetcher, nil
}

// Fetch downloads every object of the named product into
// destDir/<productID> and returns the local path of the scene XML.
// Partially written files are removed on download failure.
func (f *Fetcher) Fetch(ctx context.Context, productID, destDir string, progress func(ProgressUpdate)) (string, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return "", services.Wrap(services.ErrValidation, "staging", "fetch product", "product ID required", nil)
	}
	if strings.TrimSpace(destDir) == "" {
		return "", services.Wrap(services.ErrValidation, "staging", "fetch product", "destination directory required", nil)
	}

	prefix := f.productPrefix(productID)
	keys, err := f.store.List(ctx, prefix)
	if err != nil {
		return "", services.Wrap(services.ErrTransient, "staging", "list product objects", productID, err)
	}
	keys = filterObjectKeys(keys)
	if len(keys) == 0 {
		return "", services.Wrap(services.ErrNotFound, "staging", "fetch product", fmt.Sprintf("product %s not in bucket %s", productID, f.bucket), nil)
	}

	xmlKey, err := sceneMetadataKey(productID, keys)
	if err != nil {
		return "", err
	}

	sceneDir := filepath.Join(destDir, productID)
	if err := os.MkdirAll(sceneDir, 0o755); err != nil {
		return "", fmt.Errorf("create scene directory: %w", err)
	}

	for i, key := range keys {
		if progress != nil {
			progress(ProgressUpdate{Key: key, Index: i + 1, Total: len(keys)})
		}
		target := filepath.Join(sceneDir, path.Base(key))
		if err := f.downloadObject(ctx, key, target); err != nil {
			return "", err
		}
	}

	return filepath.Join(sceneDir, path.Base(xmlKey)), nil
}

// Check verifies that the staging bucket is reachable with the current
// credentials.
func (f *Fetcher) Check(ctx context.Context) error {
	if err := f.store.Check(ctx); err != nil {
		return services.Wrap(services.ErrTransient, "staging", "bucket access", f.bucket, err)
	}
	return nil
}

// Bucket returns the configured bucket name.
func (f *Fetcher) Bucket() string {
	return f.bucket
}

func (f *Fetcher) productPrefix(productID string) string {
	if f.prefix == "" {
		return productID + "/"
	}
	return path.Join(f.prefix, productID) + "/"
}

func (f *Fetcher) downloadObject(ctx context.Context, key, target string) error {
	file, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("create %s: %w", target, err)
	}
	_, copyErr := f.store.Download(ctx, key, file)
	closeErr := file.Close()
	if copyErr == nil {
		copyErr = closeErr
	}
	if copyErr != nil {
		_ = os.Remove(target)
		return services.Wrap(services.ErrTransient, "staging", "download object", key, copyErr)
	}
	return nil
}

// filterObjectKeys drops directory markers and returns keys in a stable
// order.
func filterObjectKeys(keys []string) []string {
	filtered := make([]string, 0, len(keys))
	for _, key := range keys {
		if key == "" || strings.HasSuffix(key, "/") {
			continue
		}
		filtered = append(filtered, key)
	}
	sort.Strings(filtered)
	return filtered
}

// sceneMetadataKey locates the product's scene XML among the listed keys.
// An object named <productID>.xml wins; otherwise a single XML object is
// accepted.
func sceneMetadataKey(productID string, keys []string) (string, error) {
	var xmlKeys []string
	for _, key := range keys {
		if strings.EqualFold(path.Ext(key), ".xml") {
			xmlKeys = append(xmlKeys, key)
		}
	}
	switch {
	case len(xmlKeys) == 0:
		return "", services.Wrap(services.ErrValidation, "staging", "locate scene metadata", fmt.Sprintf("product %s has no scene XML", productID), nil)
	case len(xmlKeys) == 1:
		return xmlKeys[0], nil
	}
	want := productID + ".xml"
	for _, key := range xmlKeys {
		if strings.EqualFold(path.Base(key), want) {
			return key, nil
		}
	}
	return "", services.Wrap(services.ErrValidation, "staging", "locate scene metadata", fmt.Sprintf("product %s has %d XML objects and none named %s", productID, len(xmlKeys), want), nil)
}
