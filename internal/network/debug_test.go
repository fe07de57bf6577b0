package network

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingProviderLogsRequestAndResponse(t *testing.T) {
	server, _ := newRecordingServer(t, http.StatusOK, `{"thisShouldBeDecoded": "ok"}`)
	logger, hook := test.NewNullLogger()
	provider := NewLoggingProvider(NewProvider(server.Client()), logger)

	req := NewRequest(server.URL).WithQuery("q", "1").WithHeader("X-Trace", "abc")
	resp, err := Fetch[decodableTest](context.Background(), provider, req)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Content.ThisShouldBeDecoded)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, "request_complete", entry.Message)
	assert.Equal(t, server.URL, entry.Data["endpoint"])
	assert.Equal(t, "GET", entry.Data["method"])
	assert.Equal(t, http.StatusOK, entry.Data["status"])
	assert.Contains(t, entry.Data["query"], "q=1")
	assert.Contains(t, entry.Data["headers"], "X-Trace")
	assert.Contains(t, entry.Data["content"], "ok")
	assert.NotEmpty(t, entry.Data["request_id"])
}

func TestLoggingProviderPassesErrorsThrough(t *testing.T) {
	transportErr := errors.New("boom")
	inner := NewProvider(&clientStub{err: transportErr})
	logger, hook := test.NewNullLogger()
	provider := NewLoggingProvider(inner, logger)

	resp, err := provider.Do(context.Background(), NewRequest("https://example.com"))
	assert.Nil(t, resp)
	assert.Same(t, transportErr, err)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, "request_failed", entry.Message)
	assert.Equal(t, "boom", entry.Data["error"])
}

func TestLoggingProviderRecordsDecodingStatus(t *testing.T) {
	server, _ := newRecordingServer(t, http.StatusAccepted, "not json")
	logger, hook := test.NewNullLogger()
	provider := NewLoggingProvider(NewProvider(server.Client()), logger)

	_, err := Fetch[decodableTest](context.Background(), provider, NewRequest(server.URL))
	require.ErrorIs(t, err, ErrDecoding)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, http.StatusAccepted, entry.Data["status"])
}

func TestPrettyBody(t *testing.T) {
	assert.Equal(t, "", prettyBody(nil))
	assert.Equal(t, "plain", prettyBody([]byte("plain")))
	assert.Equal(t, "{\n  \"a\": 1\n}", prettyBody([]byte(`{"a":1}`)))
}
