package store

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/peterbourgon/diskv/v3"
)

// DiskvBackend keeps one JSON file per key under a base directory. Keys of
// the form "<partition>-<name>" land in <base>/<partition>/<name>.
type DiskvBackend struct {
	d        *diskv.Diskv
	basePath string
}

// NewDiskvBackend opens (lazily creating) a diskv tree at basePath.
func NewDiskvBackend(basePath string) *DiskvBackend {
	return &DiskvBackend{
		d: diskv.New(diskv.Options{
			BasePath:          basePath,
			AdvancedTransform: keyToPathTransform,
			InverseTransform:  pathToKeyTransform,
			// Other processes write the same tree, so every read goes to disk.
			CacheSizeMax:      0,
		}),
		basePath: basePath,
	}
}

// BasePath is the root directory of the tree.
func (b *DiskvBackend) BasePath() string {
	return b.basePath
}

func (b *DiskvBackend) Read(key string) ([]byte, error) {
	val, err := b.d.Read(key)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return val, nil
}

func (b *DiskvBackend) Write(key string, val []byte) error {
	return b.d.Write(key, val)
}

func (b *DiskvBackend) Erase(key string) error {
	if err := b.d.Erase(key); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (b *DiskvBackend) Keys(ctx context.Context) []string {
	var keys []string
	for key := range b.d.Keys(ctx.Done()) {
		keys = append(keys, key)
	}
	return keys
}

func keyToPathTransform(s string) *diskv.PathKey {
	i := strings.LastIndex(s, "-")
	if i < 0 {
		return &diskv.PathKey{Path: []string{}, FileName: s}
	}
	return &diskv.PathKey{
		Path:     []string{s[:i]},
		FileName: s[i+1:],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	if len(pathKey.Path) == 0 {
		return pathKey.FileName
	}
	return strings.Join(pathKey.Path, "-") + "-" + pathKey.FileName
}
