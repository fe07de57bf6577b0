package network

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidURL 表示 endpoint 无法解析为绝对 URL，未发起任何请求。
	ErrInvalidURL = errors.New("invalid url")
	// ErrInvalidParams 表示 query/method 无法拼出合法请求。
	ErrInvalidParams = errors.New("invalid request params")
	// ErrInvalidResponse 表示传输层没有返回可用的 HTTP 响应。
	ErrInvalidResponse = errors.New("invalid response")
	// ErrConnection 覆盖超时、主机不可达、连接被拒或中断。
	ErrConnection = errors.New("connection error")
	// ErrDecoding matches every *DecodingError.
	ErrDecoding = errors.New("response decoding failed")
)

// ConnectionError wraps a transport failure classified as ErrConnection.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("%v: %v", ErrConnection, e.Err)
}

func (e *ConnectionError) Is(target error) bool {
	return target == ErrConnection
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// DecodingError reports a body that did not decode into the target type.
type DecodingError struct {
	Description string
	StatusCode  int
	Err         error
}

func (e *DecodingError) Error() string {
	return fmt.Sprintf("%v (status %d): %s", ErrDecoding, e.StatusCode, e.Description)
}

func (e *DecodingError) Is(target error) bool {
	return target == ErrDecoding
}

func (e *DecodingError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status carried by a *DecodingError.
func StatusCode(err error) (int, bool) {
	var decErr *DecodingError
	if errors.As(err, &decErr) {
		return decErr.StatusCode, true
	}
	return 0, false
}
