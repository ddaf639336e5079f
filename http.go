package auth

import (
	"net/http"
	"net/url"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// RouteAuthenticator issues, reads and clears the session cookie
type RouteAuthenticator struct {
	codec          SessionCodec
	users          UserFinder
	cfg            Config
	cookieDuration time.Duration
	Logger         Logger
	// LoginRoute is where ProtectedRoute sends anonymous requests
	LoginRoute   string
	ErrorHandler func(c router.Context, err error) error
}

func NewRouteAuthenticator(cfg Config, codec SessionCodec, users UserFinder) (*RouteAuthenticator, error) {
	if cfg == nil {
		return nil, errors.New("route authenticator requires a config", errors.CategoryValidation)
	}
	if codec == nil {
		return nil, errors.New("route authenticator requires a session codec", errors.CategoryValidation)
	}
	if users == nil {
		return nil, errors.New("route authenticator requires a user finder", errors.CategoryValidation)
	}

	cookieDuration := 24 * time.Hour
	if cfg.GetSessionTTL() > 0 {
		cookieDuration = cfg.GetSessionTTL()
	}

	a := &RouteAuthenticator{
		codec:          codec,
		users:          users,
		cfg:            cfg,
		cookieDuration: cookieDuration,
		Logger:         defLogger{},
		LoginRoute:     "/users/login",
	}

	a.ErrorHandler = a.defaultErrHandler

	return a, nil
}

func (a RouteAuthenticator) GetCookieDuration() time.Duration {
	return a.cookieDuration
}

// Login encodes the user id and sets the session cookie
func (a *RouteAuthenticator) Login(c router.Context, user *User) error {
	if user == nil {
		return ErrUserNotFound
	}

	token, err := a.codec.Encode(user.ID.String())
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to encode session")
	}

	a.setCookieToken(c, token, a.cookieDuration)
	return nil
}

// Logout clears the session cookie, it is safe to call without a session
func (a *RouteAuthenticator) Logout(c router.Context) {
	a.cookieDel(c, a.cfg.GetCookieName())
}

// SessionUserID decodes the session cookie without touching the store
func (a *RouteAuthenticator) SessionUserID(c router.Context) (string, bool) {
	token := c.Cookies(a.cfg.GetCookieName())
	if token == "" {
		return "", false
	}

	id, err := a.codec.Decode(token)
	if err != nil {
		return "", false
	}
	return id, true
}

// ProtectedRoute redirects requests without a resolved user to the login
// page with message. It must run after Middleware.
func (a *RouteAuthenticator) ProtectedRoute(message string) router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			if _, ok := CurrentUser(c); ok {
				return next(c)
			}

			a.Logger.Info("anonymous request to protected route", "path", c.Path())
			return c.Redirect(RedirectWithMessage(a.LoginRoute, message), redirectStatus(c))
		}
	}
}

func (a *RouteAuthenticator) setCookieToken(c router.Context, val string, duration time.Duration) {
	c.Cookie(&router.Cookie{
		Name:     a.cfg.GetCookieName(),
		Value:    val,
		Path:     "/",
		Expires:  time.Now().Add(duration),
		HTTPOnly: true,
		Secure:   a.cfg.GetCookieSecure(),
		SameSite: router.CookieSameSiteLaxMode,
	})
}

func (a *RouteAuthenticator) cookieDel(c router.Context, name string) {
	c.Cookie(&router.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   a.cfg.GetCookieSecure(),
		SameSite: router.CookieSameSiteLaxMode,
	})
}

func (a *RouteAuthenticator) defaultErrHandler(c router.Context, err error) error {
	return renderServerError(c, a.Logger, err)
}

// RedirectWithMessage appends message as the message query parameter
func RedirectWithMessage(location, message string) string {
	if message == "" {
		return location
	}
	return location + "?" + url.Values{"message": {message}}.Encode()
}

// redirectStatus answers form posts with 303 so browsers follow with a GET
func redirectStatus(c router.Context) int {
	if c.Method() == http.MethodGet || c.Method() == http.MethodHead {
		return http.StatusFound
	}
	return http.StatusSeeOther
}

// renderServerError logs err and renders the generic error page. Nothing
// from err reaches the client.
func renderServerError(c router.Context, logger Logger, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, "An unexpected server error occurred").
			WithCode(errors.CodeInternal)
	}

	ensureLogger(logger).Error(
		"request failed",
		"error", richErr.Error(),
		"category", richErr.Category,
		"path", c.Path(),
		"details", print.MaybePrettyJSON(richErr.Metadata),
	)

	return c.Status(http.StatusInternalServerError).Render("errors/500", router.ViewContext{
		"message": "Server Error",
	})
}
