package auth

import (
	"context"
	"time"
)

// ActivityEventType enumerates supported activity categories.
type ActivityEventType string

const (
	ActivityEventUserRegistered    ActivityEventType = "user.registered"
	ActivityEventDuplicateRegister ActivityEventType = "user.register.duplicate"
	ActivityEventLoginSuccess      ActivityEventType = "auth.login.success"
	ActivityEventLoginFailure      ActivityEventType = "auth.login.failure"
	ActivityEventLogout            ActivityEventType = "auth.logout"
)

// ActivityEvent captures audit-friendly information about an action.
// Email is only set when no user id is known.
type ActivityEvent struct {
	EventType  ActivityEventType
	UserID     string
	Email      string
	Metadata   map[string]any
	OccurredAt time.Time
}

// ActivitySink consumes activity events for auditing/telemetry purposes.
type ActivitySink interface {
	Record(ctx context.Context, event ActivityEvent) error
}

// ActivitySinkFunc adapts a function to the ActivitySink interface.
type ActivitySinkFunc func(ctx context.Context, event ActivityEvent) error

// Record implements ActivitySink.
func (f ActivitySinkFunc) Record(ctx context.Context, event ActivityEvent) error {
	if f == nil {
		return nil
	}
	return f(ctx, event)
}

// LoggerActivitySink writes events to a Logger
type LoggerActivitySink struct {
	Logger Logger
}

func (s LoggerActivitySink) Record(_ context.Context, event ActivityEvent) error {
	args := []any{"event", string(event.EventType), "occurred_at", event.OccurredAt.Format(time.RFC3339)}
	if event.UserID != "" {
		args = append(args, "user_id", event.UserID)
	}
	if event.Email != "" {
		args = append(args, "email", event.Email)
	}
	for k, v := range event.Metadata {
		args = append(args, k, v)
	}
	ensureLogger(s.Logger).Info("activity", args...)
	return nil
}

func normalizeActivitySink(s ActivitySink, logger Logger) ActivitySink {
	if s == nil {
		return LoggerActivitySink{Logger: logger}
	}
	return s
}

// recordActivity is best effort, sink failures are logged and dropped
func recordActivity(ctx context.Context, sink ActivitySink, logger Logger, event ActivityEvent) {
	if sink == nil {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	if err := sink.Record(ctx, event); err != nil {
		ensureLogger(logger).Warn("failed to record activity", "event", string(event.EventType), "error", err)
	}
}
