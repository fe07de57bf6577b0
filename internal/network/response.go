package network

import "net/http"

// Response is the structured result of a call. Content is either the raw
// body ([]byte) or the caller's decoded type.
type Response[T any] struct {
	StatusCode int
	Header     http.Header
	Content    T
}
