package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Logger is a structured logger, args are key/value pairs
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// LoggerProvider hands out named loggers
type LoggerProvider interface {
	GetLogger(name string) Logger
}

// Config holds auth options
type Config interface {
	GetSessionSecret() string
	GetSessionCodec() string
	GetSessionTTL() time.Duration
	GetSessionIssuer() string
	GetCookieName() string
	GetCookieSecure() bool
	GetPasswordMode() string
	GetUseHashid() bool
	GetDebug() bool
}

// PasswordAuthenticator authenticates passwords
type PasswordAuthenticator interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

// SessionCodec turns a user id into a cookie value and back
type SessionCodec interface {
	Encode(userID string) (string, error)
	Decode(token string) (string, error)
}

// UserFinder is the read side of the credential store the session
// middleware depends on
type UserFinder interface {
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
}

type defLogger struct{}

func (d defLogger) Debug(msg string, args ...any) {
	fmt.Println("[DBG] AUTH " + line(msg, args...))
}

func (d defLogger) Info(msg string, args ...any) {
	fmt.Println("[INF] AUTH " + line(msg, args...))
}

func (d defLogger) Warn(msg string, args ...any) {
	fmt.Println("[WRN] AUTH " + line(msg, args...))
}

func (d defLogger) Error(msg string, args ...any) {
	fmt.Println("[ERR] AUTH " + line(msg, args...))
}

func line(msg string, args ...any) string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(msg, "\n"))
	for i := 0; i < len(args); i += 2 {
		if i+1 >= len(args) {
			fmt.Fprintf(&b, " %v", args[i])
			break
		}
		fmt.Fprintf(&b, " %v=%v", args[i], args[i+1])
	}
	return b.String()
}

func ensureLogger(l Logger) Logger {
	if l == nil {
		return defLogger{}
	}
	return l
}
