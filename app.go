package auth

import (
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
)

// HomeMessage is the body served at the site root
const HomeMessage = "Hello, user auth 👋"

// ServerOption customizes NewServer
type ServerOption func(*serverOptions)

type serverOptions struct {
	logger    LoggerProvider
	activity  ActivitySink
	passwords PasswordAuthenticator
	codec     SessionCodec
	views     fiber.Views
}

// WithLoggerProvider sets where named loggers come from
func WithLoggerProvider(p LoggerProvider) ServerOption {
	return func(o *serverOptions) { o.logger = p }
}

// WithActivitySink sets the activity sink, by default events are logged
func WithActivitySink(sink ActivitySink) ServerOption {
	return func(o *serverOptions) { o.activity = sink }
}

// WithPasswordAuthenticator overrides the one picked from config
func WithPasswordAuthenticator(pa PasswordAuthenticator) ServerOption {
	return func(o *serverOptions) { o.passwords = pa }
}

// WithSessionCodec overrides the one picked from config
func WithSessionCodec(codec SessionCodec) ServerOption {
	return func(o *serverOptions) { o.codec = codec }
}

// WithViews overrides the embedded django templates
func WithViews(views fiber.Views) ServerOption {
	return func(o *serverOptions) { o.views = views }
}

// NewServer wires the session middleware and the /users routes on a fiber
// backed router
func NewServer(cfg Config, repo RepositoryManager, opts ...ServerOption) (router.Server[*fiber.App], error) {
	o := &serverOptions{}
	for _, opt := range opts {
		opt(o)
	}

	if cfg == nil {
		return nil, goerrors.New("server requires a config", goerrors.CategoryValidation)
	}

	if repo == nil {
		return nil, goerrors.New("server requires a repository manager", goerrors.CategoryValidation)
	}

	if err := repo.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid repository manager")
	}

	if o.passwords == nil {
		pa, err := NewPasswordAuthenticator(cfg.GetPasswordMode())
		if err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid password mode")
		}
		o.passwords = pa
	}

	if o.codec == nil {
		codec, err := NewSessionCodec(cfg)
		if err != nil {
			return nil, err
		}
		o.codec = codec
	}

	if o.views == nil {
		o.views = NewViewEngine(cfg.GetDebug())
	}

	serverLogger := resolveLogger("auth.server", o.logger, nil)

	server := router.NewFiberAdapter(func(*fiber.App) *fiber.App {
		return fiber.New(fiber.Config{
			Views:                 o.views,
			DisableStartupMessage: true,
			ErrorHandler: func(c *fiber.Ctx, err error) error {
				var fe *fiber.Error
				if goerrors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
					return c.Status(fe.Code).SendString(fe.Message)
				}
				return renderServerError(router.NewFiberContext(c), serverLogger, err)
			},
		})
	})

	auther, err := NewRouteAuthenticator(cfg, o.codec, repo.Users())
	if err != nil {
		return nil, err
	}
	auther.Logger = resolveLogger("auth.session", o.logger, nil)

	controller := NewUsersController(
		WithControllerRepository(repo),
		WithControllerAuthenticator(auther),
		WithControllerPasswords(o.passwords),
		WithControllerLogger(resolveLogger("auth.controller", o.logger, nil)),
		WithControllerActivitySink(o.activity),
		WithControllerDebug(cfg.GetDebug()),
		WithControllerHashid(cfg.GetUseHashid()),
	)

	r := server.Router()

	r.Get("/", func(c router.Context) error {
		return c.SendString(HomeMessage)
	}, auther.Middleware()).SetName("home")

	RegisterUserRoutes(r.Group(controller.Prefix), controller)

	return server, nil
}
