package cache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
)

// Provider stores one record per key.
//
// Contract:
//   - Keys are any value the Hasher accepts; an unencodable key fails with
//     ErrInvalidKey before any I/O.
//   - Get decodes into dst, which must be a non-nil pointer.
//   - Errors are *Error values classified by ErrInvalidKey, ErrNotFound,
//     ErrDecoding, ErrEncoding or ErrUnknown.
//   - Concurrent Set calls on the same key are last-writer-wins.
type Provider interface {
	Get(ctx context.Context, key any, dst any) error
	Set(ctx context.Context, key any, value any) error
	Delete(ctx context.Context, key any) error
}

// Get is the typed form of Provider.Get.
func Get[T any](ctx context.Context, p Provider, key any) (T, error) {
	var value T
	if err := p.Get(ctx, key, &value); err != nil {
		var zero T
		return zero, err
	}
	return value, nil
}

// Option customizes a DiskProvider.
type Option func(*DiskProvider)

// WithCodec replaces the default JSON codec.
func WithCodec(codec Codec) Option {
	return func(p *DiskProvider) {
		if codec != nil {
			p.codec = codec
		}
	}
}

// WithHasher replaces the default SHA-256 hasher.
func WithHasher(hasher Hasher) Option {
	return func(p *DiskProvider) {
		if hasher != nil {
			p.hasher = hasher
		}
	}
}

// WithAccessorFactory replaces how per-operation accessors are built.
func WithAccessorFactory(factory AccessorFactory) Option {
	return func(p *DiskProvider) {
		if factory != nil {
			p.newAccessor = factory
		}
	}
}

// DiskProvider 将每个 key 映射为存储根目录下以内容地址命名的单个文件。
// 除注入的配置外不持有可变状态，可在进程内共享一份实例。
type DiskProvider struct {
	fs          billy.Filesystem
	codec       Codec
	hasher      Hasher
	newAccessor AccessorFactory
}

// NewProvider builds a provider whose storage root is the root of fsys.
func NewProvider(fsys billy.Filesystem, opts ...Option) (*DiskProvider, error) {
	if fsys == nil {
		return nil, errors.New("storage filesystem required")
	}
	p := &DiskProvider{
		fs:          fsys,
		codec:       JSONCodec{},
		hasher:      NewDigestHasher(),
		newAccessor: NewFileAccessor,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// NewDiskProvider 以 storagePath 为根目录构建磁盘缓存，目录不存在时自动创建。
func NewDiskProvider(storagePath string, opts ...Option) (*DiskProvider, error) {
	if storagePath == "" {
		return nil, errors.New("storage path required")
	}

	abs, err := filepath.Abs(storagePath)
	if err != nil {
		return nil, fmt.Errorf("resolve storage path: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create storage path: %w", err)
	}

	return NewProvider(osfs.New(abs), opts...)
}

// Root returns the storage filesystem root.
func (p *DiskProvider) Root() string {
	return p.fs.Root()
}

// Codec returns the configured codec.
func (p *DiskProvider) Codec() Codec {
	return p.codec
}

// Address returns the storage path the record for key lives at.
func (p *DiskProvider) Address(key any) (string, error) {
	address, err := p.hasher.Hash(key)
	if err != nil {
		return "", newError("address", ErrInvalidKey, key, err)
	}
	return address, nil
}

func (p *DiskProvider) Get(ctx context.Context, key any, dst any) error {
	accessor, err := p.accessor("get", key)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return newError("get", ErrUnknown, key, err)
	}

	data, err := accessor.Get(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return newError("get", ErrUnknown, key, ctxErr)
		}
		return newError("get", ErrNotFound, key, err)
	}

	if err := p.codec.Unmarshal(data, dst); err != nil {
		return newError("get", ErrDecoding, key, err)
	}
	return nil
}

func (p *DiskProvider) Set(ctx context.Context, key any, value any) error {
	accessor, err := p.accessor("set", key)
	if err != nil {
		return err
	}

	data, err := p.codec.Marshal(value)
	if err != nil {
		return newError("set", ErrEncoding, key, err)
	}

	if err := accessor.Set(ctx, data); err != nil {
		return newError("set", ErrUnknown, key, err)
	}
	return nil
}

func (p *DiskProvider) Delete(ctx context.Context, key any) error {
	accessor, err := p.accessor("delete", key)
	if err != nil {
		return err
	}

	if err := accessor.Delete(ctx); err != nil {
		return newError("delete", ErrUnknown, key, err)
	}
	return nil
}

func (p *DiskProvider) accessor(op string, key any) (FileAccessor, error) {
	address, err := p.hasher.Hash(key)
	if err != nil {
		return nil, newError(op, ErrInvalidKey, key, err)
	}
	return p.newAccessor(p.fs, address), nil
}

var _ Provider = (*DiskProvider)(nil)
