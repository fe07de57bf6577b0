package network

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// LoggingProvider decorates a Provider and logs each request together with
// its response or error. Results and errors pass through untouched.
type LoggingProvider struct {
	next   Provider
	logger logrus.FieldLogger
}

// NewLoggingProvider wraps next. A nil logger falls back to the logrus
// standard logger.
func NewLoggingProvider(next Provider, logger logrus.FieldLogger) *LoggingProvider {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &LoggingProvider{next: next, logger: logger}
}

func (p *LoggingProvider) Do(ctx context.Context, req Request) (*Response[[]byte], error) {
	started := time.Now()
	resp, err := p.next.Do(ctx, req)
	p.log(req, resp, nil, started, err)
	return resp, err
}

func (p *LoggingProvider) DoInto(ctx context.Context, req Request, out any) (*Response[[]byte], error) {
	started := time.Now()
	resp, err := p.next.DoInto(ctx, req, out)
	p.log(req, resp, out, started, err)
	return resp, err
}

func (p *LoggingProvider) log(req Request, resp *Response[[]byte], decoded any, started time.Time, err error) {
	fields := RequestFields(req)
	fields["action"] = "network"
	fields["request_id"] = uuid.NewString()
	fields["elapsed_ms"] = time.Since(started).Milliseconds()

	if err != nil {
		fields["error"] = err.Error()
		if status, ok := StatusCode(err); ok {
			fields["status"] = status
		}
		p.logger.WithFields(fields).Error("request_failed")
		return
	}

	fields["status"] = resp.StatusCode
	fields["response_headers"] = prettyJSON(resp.Header)
	if decoded != nil {
		fields["content"] = fmt.Sprintf("%+v", decoded)
	} else {
		fields["content"] = prettyBody(resp.Content)
	}
	p.logger.WithFields(fields).Info("request_complete")
}

// RequestFields describes req as log fields.
func RequestFields(req Request) logrus.Fields {
	query := make([]string, 0, len(req.Query))
	for _, param := range req.Query {
		query = append(query, param.Name+"="+param.Value)
	}
	return logrus.Fields{
		"endpoint": req.Endpoint,
		"method":   string(req.method()),
		"headers":  prettyJSON(req.Header),
		"query":    prettyJSON(query),
		"body":     prettyBody(req.Body),
	}
}

// prettyBody renders JSON bodies indented and anything else as text.
func prettyBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return string(body)
	}
	return prettyJSON(v)
}

func prettyJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return string(data)
}

var _ Provider = (*LoggingProvider)(nil)
