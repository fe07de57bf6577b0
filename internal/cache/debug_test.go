package cache

import (
	"context"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingProviderIsTransparent(t *testing.T) {
	inner, err := NewProvider(memfs.New())
	require.NoError(t, err)
	logger, hook := test.NewNullLogger()
	provider := NewLoggingProvider(inner, logger)
	ctx := context.Background()

	require.NoError(t, provider.Set(ctx, "key", []string{"a"}))
	got, err := Get[[]string](ctx, provider, "key")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, got)
	require.NoError(t, provider.Delete(ctx, "key"))

	entries := hook.AllEntries()
	require.Len(t, entries, 3)
	for i, op := range []string{"set", "get", "delete"} {
		assert.Equal(t, logrus.InfoLevel, entries[i].Level)
		assert.Equal(t, "cache_complete", entries[i].Message)
		assert.Equal(t, op, entries[i].Data["op"])
		assert.Equal(t, `"key"`, entries[i].Data["key"])
	}
	assert.Equal(t, "[\n  \"a\"\n]", entries[1].Data["value"])
}

func TestLoggingProviderReturnsOriginalError(t *testing.T) {
	mock := &accessorMock{}
	inner := newMockProvider(t, mock)
	logger, hook := test.NewNullLogger()
	provider := NewLoggingProvider(inner, logger)

	innerErr := inner.Get(context.Background(), "missing", new(string))
	err := provider.Get(context.Background(), "missing", new(string))

	require.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, innerErr.Error(), err.Error())

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, "cache_failed", entry.Message)
	assert.Equal(t, err.Error(), entry.Data["error"])
	assert.NotContains(t, entry.Data, "value")
}

func TestLoggingProviderDescribesUnencodableKey(t *testing.T) {
	inner, err := NewProvider(memfs.New())
	require.NoError(t, err)
	logger, hook := test.NewNullLogger()
	provider := NewLoggingProvider(inner, logger)

	err = provider.Delete(context.Background(), make(chan int))
	require.ErrorIs(t, err, ErrInvalidKey)
	require.NotNil(t, hook.LastEntry())
	assert.NotEmpty(t, hook.LastEntry().Data["key"])
}
