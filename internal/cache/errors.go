package cache

import (
	"errors"
	"fmt"
)

// 错误分类。调用方通过 errors.Is 判断类别，具体信息见 *Error。
var (
	// ErrInvalidKey 表示 key 无法编码为规范字节序列。
	ErrInvalidKey = errors.New("cache key is not encodable")
	// ErrNotFound 表示记录不存在或不可读。
	ErrNotFound = errors.New("cache entry not found")
	// ErrDecoding 表示已存储的字节无法解码为目标类型。
	ErrDecoding = errors.New("cache entry decoding failed")
	// ErrEncoding 表示值无法序列化。
	ErrEncoding = errors.New("cache value encoding failed")
	// ErrUnknown 覆盖其余的存储层 I/O 失败。
	ErrUnknown = errors.New("cache storage failure")
	// ErrExpired is reserved for caller-side expiry policies; the provider
	// never returns it.
	ErrExpired = errors.New("cache entry expired")
)

// Error is the concrete error returned by Provider operations.
type Error struct {
	Op          string
	Kind        error
	Key         any
	Description string
	Err         error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == ErrNotFound:
		return fmt.Sprintf("cache %s: %v: %v", e.Op, e.Kind, e.Key)
	case e.Description != "":
		return fmt.Sprintf("cache %s: %v: %s", e.Op, e.Kind, e.Description)
	default:
		return fmt.Sprintf("cache %s: %v", e.Op, e.Kind)
	}
}

// Is matches the error against its kind sentinel.
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(op string, kind error, key any, cause error) *Error {
	e := &Error{Op: op, Kind: kind, Key: key, Err: cause}
	if cause != nil {
		e.Description = cause.Error()
	}
	return e
}

// KeyOf returns the key carried by a NotFound error.
func KeyOf(err error) (any, bool) {
	var cacheErr *Error
	if errors.As(err, &cacheErr) && cacheErr.Kind == ErrNotFound {
		return cacheErr.Key, true
	}
	return nil, false
}
