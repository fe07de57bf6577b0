package network

import (
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
	"slices"
)

// Method is the HTTP method of a Request. Only GET and POST are supported.
type Method string

const (
	MethodGet  Method = http.MethodGet
	MethodPost Method = http.MethodPost
)

// Valid reports whether m is a supported method.
func (m Method) Valid() bool {
	return m == MethodGet || m == MethodPost
}

// QueryParam is a single query pair. Params are appended in slice order.
type QueryParam struct {
	Name  string
	Value string
}

// Request describes one outbound call. It is a value type: the With* helpers
// return modified copies and never share slices or maps with the receiver.
type Request struct {
	Endpoint string
	Method   Method
	Query    []QueryParam
	Header   map[string]string
	Body     []byte
	Decoder  Decoder
}

// NewRequest returns a GET request for endpoint.
func NewRequest(endpoint string) Request {
	return Request{Endpoint: endpoint, Method: MethodGet}
}

// WithMethod returns a copy using method m.
func (r Request) WithMethod(m Method) Request {
	r.Method = m
	return r
}

// WithQuery returns a copy with name=value appended to the query.
func (r Request) WithQuery(name, value string) Request {
	r.Query = append(slices.Clone(r.Query), QueryParam{Name: name, Value: value})
	return r
}

// WithHeader returns a copy with header key set to value.
func (r Request) WithHeader(key, value string) Request {
	header := maps.Clone(r.Header)
	if header == nil {
		header = make(map[string]string, 1)
	}
	header[key] = value
	r.Header = header
	return r
}

// WithBody returns a copy carrying body unmodified.
func (r Request) WithBody(body []byte) Request {
	r.Body = slices.Clone(body)
	return r
}

// WithJSONBody encodes v as the body and sets Content-Type.
func (r Request) WithJSONBody(v any) (Request, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return r, fmt.Errorf("encode request body: %w", err)
	}
	r.Body = body
	return r.WithHeader("Content-Type", "application/json"), nil
}

// WithDecoder returns a copy decoding responses with d.
func (r Request) WithDecoder(d Decoder) Request {
	r.Decoder = d
	return r
}

func (r Request) method() Method {
	if r.Method == "" {
		return MethodGet
	}
	return r.Method
}

func (r Request) decoder() Decoder {
	if r.Decoder == nil {
		return JSONDecoder{}
	}
	return r.Decoder
}
