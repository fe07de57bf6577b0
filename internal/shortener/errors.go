package shortener

import (
	"errors"

	"github.com/url-shortener/url-shortener/internal/network"
)

// ErrInvalidInput 表示待缩短的 URL 为空或不是 http(s) 绝对地址。
var ErrInvalidInput = errors.New("invalid input url")

// Notice codes returned by Describe.
const (
	CodeInvalidInput        = "invalid_input"
	CodeUpstreamUnreachable = "upstream_unreachable"
	CodeUpstreamFailed      = "upstream_failed"
)

// Notice is the user-facing rendering of a shorten failure.
type Notice struct {
	Code        string `json:"error"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Describe 将错误归类为输入错误、连接错误或通用错误，nil 返回零值。
func Describe(err error) Notice {
	switch {
	case err == nil:
		return Notice{}
	case errors.Is(err, ErrInvalidInput):
		return Notice{
			Code:        CodeInvalidInput,
			Title:       "Invalid URL",
			Description: "Enter an absolute http or https URL.",
		}
	case errors.Is(err, network.ErrConnection):
		return Notice{
			Code:        CodeUpstreamUnreachable,
			Title:       "Connection error",
			Description: "Check your internet connection and try again.",
		}
	default:
		return Notice{
			Code:  CodeUpstreamFailed,
			Title: "Something went wrong",
		}
	}
}
