package auth

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
	"github.com/joho/godotenv"
)

// DefaultCookieName is the session cookie name
const DefaultCookieName = "userId"

// Options implements Config
type Options struct {
	Port            int    `json:"port"`
	DatabaseDSN     string `json:"database_dsn"`
	SessionSecret   string `json:"session_secret"`
	SessionCodec    string `json:"session_codec"`
	SessionIssuer   string `json:"session_issuer"`
	SessionTTLHours int    `json:"session_ttl_hours"`
	CookieName      string `json:"cookie_name"`
	CookieSecure    bool   `json:"cookie_secure"`
	PasswordMode    string `json:"password_mode"`
	UseHashid       bool   `json:"hashid_ids"`
	Debug           bool   `json:"debug"`
}

var _ Config = (*Options)(nil)

func DefaultOptions() *Options {
	return &Options{
		Port:            3000,
		DatabaseDSN:     DefaultDatabaseDSN,
		SessionCodec:    SessionCodecAES,
		SessionIssuer:   "user-auth",
		SessionTTLHours: 24,
		CookieName:      DefaultCookieName,
		CookieSecure:    true,
		PasswordMode:    PasswordModeBcrypt,
	}
}

// LoadOptionsFromEnv reads the given .env files, when present, and then the
// process environment on top of DefaultOptions. Missing env files are not
// an error.
func LoadOptionsFromEnv(envFiles ...string) (*Options, error) {
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "failed to load env file").
				WithMetadata(map[string]any{"file": f})
		}
	}

	o := DefaultOptions()
	var err error

	if o.Port, err = envInt("PORT", o.Port); err != nil {
		return nil, err
	}
	if o.SessionTTLHours, err = envInt("SESSION_TTL_HOURS", o.SessionTTLHours); err != nil {
		return nil, err
	}
	if o.CookieSecure, err = envBool("COOKIE_SECURE", o.CookieSecure); err != nil {
		return nil, err
	}
	if o.UseHashid, err = envBool("HASHID_IDS", o.UseHashid); err != nil {
		return nil, err
	}
	if o.Debug, err = envBool("DEBUG", o.Debug); err != nil {
		return nil, err
	}

	o.DatabaseDSN = envString("DATABASE_DSN", o.DatabaseDSN)
	o.SessionSecret = envString("SESSION_SECRET", o.SessionSecret)
	o.SessionCodec = strings.ToLower(envString("SESSION_CODEC", o.SessionCodec))
	o.SessionIssuer = envString("SESSION_ISSUER", o.SessionIssuer)
	o.PasswordMode = strings.ToLower(envString("PASSWORD_MODE", o.PasswordMode))

	return o, nil
}

// Validate checks the modes are known and that codecs needing a secret
// have one
func (o Options) Validate() error {
	secretRules := []validation.Rule{}
	if o.SessionCodec != SessionCodecPlain {
		secretRules = append(secretRules, validation.Required)
	}

	err := validation.ValidateStruct(&o,
		validation.Field(&o.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&o.SessionCodec, validation.Required, validation.In(SessionCodecAES, SessionCodecJWT, SessionCodecPlain)),
		validation.Field(&o.PasswordMode, validation.Required, validation.In(PasswordModeBcrypt, PasswordModePlain)),
		validation.Field(&o.SessionTTLHours, validation.Min(0)),
		validation.Field(&o.SessionSecret, secretRules...),
	)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid configuration").
			WithCode(goerrors.CodeBadRequest)
	}
	return nil
}

// Redacted returns a copy safe to print
func (o Options) Redacted() Options {
	if o.SessionSecret != "" {
		o.SessionSecret = redacted
	}
	return o
}

func (o Options) GetPort() int                 { return o.Port }
func (o Options) GetDatabaseDSN() string       { return o.DatabaseDSN }
func (o Options) GetSessionSecret() string     { return o.SessionSecret }
func (o Options) GetSessionCodec() string      { return o.SessionCodec }
func (o Options) GetSessionIssuer() string     { return o.SessionIssuer }
func (o Options) GetCookieSecure() bool        { return o.CookieSecure }
func (o Options) GetPasswordMode() string      { return o.PasswordMode }
func (o Options) GetUseHashid() bool           { return o.UseHashid }
func (o Options) GetDebug() bool               { return o.Debug }
func (o Options) GetSessionTTL() time.Duration { return time.Duration(o.SessionTTLHours) * time.Hour }

func (o Options) GetCookieName() string {
	if o.CookieName == "" {
		return DefaultCookieName
	}
	return o.CookieName
}

func envString(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

func envInt(key string, def int) (int, error) {
	v := envString(key, "")
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, goerrors.Wrap(err, goerrors.CategoryValidation, fmt.Sprintf("%s must be an integer", key))
	}
	return n, nil
}

func envBool(key string, def bool) (bool, error) {
	v := envString(key, "")
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, goerrors.Wrap(err, goerrors.CategoryValidation, fmt.Sprintf("%s must be a boolean", key))
	}
	return b, nil
}
