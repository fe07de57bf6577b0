package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/sirupsen/logrus"
)

// LoggingProvider decorates a Provider and logs every call with its key,
// value and outcome. Results and errors pass through untouched.
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

func (p *LoggingProvider) Get(ctx context.Context, key any, dst any) error {
	started := time.Now()
	err := p.next.Get(ctx, key, dst)
	p.log("get", key, func() any { return indirect(dst) }, started, err)
	return err
}

func (p *LoggingProvider) Set(ctx context.Context, key any, value any) error {
	started := time.Now()
	err := p.next.Set(ctx, key, value)
	p.log("set", key, func() any { return value }, started, err)
	return err
}

func (p *LoggingProvider) Delete(ctx context.Context, key any) error {
	started := time.Now()
	err := p.next.Delete(ctx, key)
	p.log("delete", key, func() any { return map[string]any{} }, started, err)
	return err
}

func (p *LoggingProvider) log(op string, key any, value func() any, started time.Time, err error) {
	fields := logrus.Fields{
		"action":     "cache",
		"op":         op,
		"key":        describe(key),
		"elapsed_ms": time.Since(started).Milliseconds(),
	}
	if err != nil {
		fields["error"] = err.Error()
		p.logger.WithFields(fields).Error("cache_failed")
		return
	}
	fields["value"] = describe(value())
	p.logger.WithFields(fields).Info("cache_complete")
}

// describe renders v as indented JSON, falling back to %+v for values JSON
// cannot represent.
func describe(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return string(data)
}

func indirect(v any) any {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && !rv.IsNil() {
		return rv.Elem().Interface()
	}
	return v
}

var _ Provider = (*LoggingProvider)(nil)
