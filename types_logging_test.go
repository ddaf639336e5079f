package auth

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

type logEntry struct {
	level   string
	message string
	args    []any
}

type captureLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *captureLogger) record(level, message string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{level: level, message: message, args: args})
}

func (l *captureLogger) Debug(message string, args ...any) { l.record("debug", message, args...) }
func (l *captureLogger) Info(message string, args ...any)  { l.record("info", message, args...) }
func (l *captureLogger) Warn(message string, args ...any)  { l.record("warn", message, args...) }
func (l *captureLogger) Error(message string, args ...any) { l.record("error", message, args...) }

func (l *captureLogger) find(level, message string) (logEntry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.entries {
		if e.level == level && e.message == message {
			return e, true
		}
	}
	return logEntry{}, false
}

type loggerProviderSpy struct {
	names  []string
	logger Logger
}

func (p *loggerProviderSpy) GetLogger(name string) Logger {
	p.names = append(p.names, name)
	return p.logger
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		m := map[string]any{}
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestZerologLoggerWritesFields(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewZerologLogger(zerolog.New(buf))

	logger.Info("user registered", "user_id", "abc", "attempt", 2)
	logger.GetLogger("auth.session").Warn("discarding session cookie", "reason", "expired")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 2)

	assert.Equal(t, "info", lines[0]["level"])
	assert.Equal(t, "user registered", lines[0]["message"])
	assert.Equal(t, "abc", lines[0]["user_id"])
	assert.EqualValues(t, 2, lines[0]["attempt"])

	assert.Equal(t, "warn", lines[1]["level"])
	assert.Equal(t, "auth.session", lines[1]["logger"])
	assert.Equal(t, "expired", lines[1]["reason"])
}

func TestNewConsoleLoggerLevels(t *testing.T) {
	buf := &bytes.Buffer{}
	NewConsoleLogger(buf, false).Debug("hidden")
	assert.Empty(t, buf.String())

	NewConsoleLogger(buf, false).Info("shown")
	assert.Contains(t, buf.String(), "shown")

	buf.Reset()
	NewConsoleLogger(buf, true).Debug("verbose", "key", "value")
	assert.Contains(t, buf.String(), "verbose")
	assert.Contains(t, buf.String(), "value")
}

func TestResolveLogger(t *testing.T) {
	fallback := &captureLogger{}
	named := &captureLogger{}

	provider := &loggerProviderSpy{logger: named}
	assert.Same(t, named, resolveLogger("auth.server", provider, fallback))
	assert.Equal(t, []string{"auth.server"}, provider.names)

	empty := &loggerProviderSpy{}
	assert.Same(t, fallback, resolveLogger("auth.server", empty, fallback))

	assert.IsType(t, defLogger{}, resolveLogger("auth.server", nil, nil))
}

func TestDefaultLoggerLineFormat(t *testing.T) {
	assert.Equal(t, "hello a=1 b=two", line("hello\n", "a", 1, "b", "two"))
	assert.Equal(t, "odd a=1 dangling", line("odd", "a", 1, "dangling"))
	assert.Equal(t, "plain", line("plain"))

	assert.NotPanics(t, func() {
		var l Logger = defLogger{}
		l.Debug("debug")
		l.Info("info")
		l.Warn("warn")
		l.Error("error", "k", "v")
	})
}

func TestRecordActivityLogsSinkFailures(t *testing.T) {
	logger := &captureLogger{}
	sink := ActivitySinkFunc(func(context.Context, ActivityEvent) error {
		return errors.New("sink offline")
	})

	assert.NotPanics(t, func() {
		recordActivity(context.Background(), sink, logger, ActivityEvent{EventType: ActivityEventLogout})
	})

	entry, ok := logger.find("warn", "failed to record activity")
	require.True(t, ok)
	assert.Contains(t, fmt.Sprint(entry.args...), "sink offline")
}

func TestRecordActivityStampsTime(t *testing.T) {
	var got ActivityEvent
	sink := ActivitySinkFunc(func(_ context.Context, e ActivityEvent) error {
		got = e
		return nil
	})

	recordActivity(context.Background(), sink, nil, ActivityEvent{EventType: ActivityEventLoginSuccess})
	assert.False(t, got.OccurredAt.IsZero())

	assert.NotPanics(t, func() {
		recordActivity(context.Background(), nil, nil, ActivityEvent{EventType: ActivityEventLoginSuccess})
	})
}

func TestLoggerActivitySink(t *testing.T) {
	logger := &captureLogger{}
	sink := normalizeActivitySink(nil, logger)

	err := sink.Record(context.Background(), ActivityEvent{
		EventType: ActivityEventLoginFailure,
		Email:     "ana@example.com",
	})
	require.NoError(t, err)

	entry, ok := logger.find("info", "activity")
	require.True(t, ok)
	assert.Contains(t, entry.args, string(ActivityEventLoginFailure))
	assert.Contains(t, entry.args, "ana@example.com")
}

func TestNewServerResolvesScopedLoggers(t *testing.T) {
	named := &captureLogger{}
	provider := &loggerProviderSpy{logger: named}

	cfg := DefaultOptions()
	cfg.SessionCodec = SessionCodecPlain

	srv, err := NewServer(cfg, mngrStub{}, WithLoggerProvider(provider))
	require.NoError(t, err)
	require.NotNil(t, srv)

	assert.Contains(t, provider.names, "auth.server")
	assert.Contains(t, provider.names, "auth.session")
	assert.Contains(t, provider.names, "auth.controller")
}

type usersStub struct {
	Users
}

type mngrStub struct{}

func (mngrStub) Validate() error { return nil }
func (mngrStub) MustValidate()   {}
func (mngrStub) RunInTx(ctx context.Context, _ *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	return f(ctx, bun.Tx{})
}
func (mngrStub) Users() Users { return usersStub{} }
