package network

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Provider executes Requests.
//
// Contract:
//   - Do returns the raw body; DoInto additionally decodes it into out with
//     the request's Decoder.
//   - Build failures (ErrInvalidURL, ErrInvalidParams) happen before any
//     transport call.
//   - Implementations never retry.
type Provider interface {
	Do(ctx context.Context, req Request) (*Response[[]byte], error)
	DoInto(ctx context.Context, req Request, out any) (*Response[[]byte], error)
}

// Fetch executes req and decodes the body into T.
func Fetch[T any](ctx context.Context, p Provider, req Request) (*Response[T], error) {
	var content T
	raw, err := p.DoInto(ctx, req, &content)
	if err != nil {
		return nil, err
	}
	return &Response[T]{
		StatusCode: raw.StatusCode,
		Header:     raw.Header,
		Content:    content,
	}, nil
}

// HTTPClient is the transport a Provider sends requests through.
// *http.Client satisfies it.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPProvider is the net/http backed Provider.
type HTTPProvider struct {
	client HTTPClient
}

// NewProvider returns a Provider sending through client, or through
// http.DefaultClient when client is nil.
func NewProvider(client HTTPClient) *HTTPProvider {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPProvider{client: client}
}

func (p *HTTPProvider) Do(ctx context.Context, req Request) (*Response[[]byte], error) {
	httpReq, err := BuildRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, classify(err)
	}
	if resp == nil {
		return nil, ErrInvalidResponse
	}
	body := resp.Body
	if body == nil {
		body = http.NoBody
	}
	defer body.Close()

	if resp.StatusCode < 100 || resp.StatusCode > 599 {
		return nil, fmt.Errorf("%w: status %d", ErrInvalidResponse, resp.StatusCode)
	}

	content, err := io.ReadAll(body)
	if err != nil {
		return nil, classify(err)
	}

	return &Response[[]byte]{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Content:    content,
	}, nil
}

func (p *HTTPProvider) DoInto(ctx context.Context, req Request, out any) (*Response[[]byte], error) {
	resp, err := p.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := req.decoder().Decode(resp.Content, out); err != nil {
		return nil, &DecodingError{
			Description: err.Error(),
			StatusCode:  resp.StatusCode,
			Err:         err,
		}
	}
	return resp, nil
}

// BuildRequest turns req into an *http.Request bound to ctx.
func BuildRequest(ctx context.Context, req Request) (*http.Request, error) {
	endpoint, err := url.Parse(req.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if endpoint.Scheme == "" || endpoint.Host == "" {
		return nil, fmt.Errorf("%w: %q is not an absolute url", ErrInvalidURL, req.Endpoint)
	}

	method := req.method()
	if !method.Valid() {
		return nil, fmt.Errorf("%w: unsupported method %q", ErrInvalidParams, method)
	}

	rawQuery, err := appendQuery(endpoint.RawQuery, req.Query)
	if err != nil {
		return nil, err
	}
	endpoint.RawQuery = rawQuery
	final, err := url.Parse(endpoint.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}

	var body io.Reader = http.NoBody
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, string(method), final.String(), body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	for key, value := range req.Header {
		if strings.EqualFold(key, "Host") {
			httpReq.Host = value
			continue
		}
		httpReq.Header[key] = []string{value}
	}
	return httpReq, nil
}

func appendQuery(existing string, params []QueryParam) (string, error) {
	if len(params) == 0 {
		return existing, nil
	}

	var b strings.Builder
	b.WriteString(existing)
	for _, param := range params {
		if param.Name == "" {
			return "", fmt.Errorf("%w: empty query parameter name", ErrInvalidParams)
		}
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(param.Name))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(param.Value))
	}
	return b.String(), nil
}

var _ Provider = (*HTTPProvider)(nil)
