package cache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// FileAccessor reads, writes and deletes the single blob stored at one
// location. It knows nothing about keys or serialization.
type FileAccessor interface {
	// Get 读取完整内容；路径不存在、是目录或不可读时返回包装了 ErrNotFound 的错误。
	Get(ctx context.Context) ([]byte, error)
	// Set 以临时文件 + rename 的方式整体写入，失败时清理临时文件。
	Set(ctx context.Context, data []byte) error
	// Delete 删除该位置的文件，目标不存在视为成功。
	Delete(ctx context.Context) error
	// Path 返回绑定的相对路径。
	Path() string
}

// AccessorFactory builds the accessor bound to path inside fsys. Providers call
// it once per operation, which lets tests substitute their own accessor.
type AccessorFactory func(fsys billy.Filesystem, path string) FileAccessor

// NewFileAccessor is the default AccessorFactory.
func NewFileAccessor(fsys billy.Filesystem, path string) FileAccessor {
	return &fileAccessor{fs: fsys, path: path}
}

type fileAccessor struct {
	fs   billy.Filesystem
	path string
}

func (a *fileAccessor) Path() string {
	return a.path
}

func (a *fileAccessor) Get(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := a.fs.Stat(a.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrNotFound, a.path)
	}

	data, err := util.ReadFile(a.fs, a.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return data, nil
}

func (a *fileAccessor) Set(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// billy 的 OpenFile(O_CREATE) 会自动补齐父目录，存储根被外部删除后也能重建。
	tempFile, err := util.TempFile(a.fs, filepath.Dir(a.path), ".cache-")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tempName := tempFile.Name()

	_, err = tempFile.Write(data)
	closeErr := tempFile.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = a.fs.Remove(tempName)
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := a.fs.Rename(tempName, a.path); err != nil {
		_ = a.fs.Remove(tempName)
		return fmt.Errorf("commit %s: %w", a.path, err)
	}
	return nil
}

func (a *fileAccessor) Delete(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := a.fs.Remove(a.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
