package auth

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

const (
	MessageInvalidCredentials = "Incorrect username or password"
	MessageAccountExists      = "Account already exists, please log in to continue"
	MessageAuthRequired       = "You must authenticate before you are authorized to view this resource"
)

const redacted = "********"

// RegisterUserRoutes mounts the controller on app, usually a "/users" group.
// Every route but logout resolves the session first, logout only clears
// the cookie and never reads the store.
func RegisterUserRoutes[T any](app router.Router[T], controller *UsersController) {
	session := controller.Auther.Middleware()

	app.Get(controller.Routes.New, controller.RegistrationShow, session).SetName("register.get")
	app.Post(controller.Routes.Register, controller.RegistrationCreate, session).SetName("register.post")

	app.Get(controller.Routes.Login, controller.LoginShow, session).SetName("sign-in.get")
	app.Post(controller.Routes.Login, controller.LoginPost, session).SetName("sign-in.post")

	app.Get(controller.Routes.Logout, controller.LogOut).SetName("sign-out.get")

	app.Get(controller.Routes.Profile, controller.ProfileShow,
		session,
		controller.Auther.ProtectedRoute(MessageAuthRequired),
	).SetName("profile.get")
}

// UsersControllerRoutes are relative to the mount point
type UsersControllerRoutes struct {
	New      string
	Register string
	Login    string
	Logout   string
	Profile  string
}

type UsersControllerViews struct {
	Register string
	Login    string
	Profile  string
}

type UsersController struct {
	Debug     bool
	UseHashid bool
	// Prefix is the mount point, used to build absolute redirects
	Prefix       string
	Logger       Logger
	Repo         RepositoryManager
	Passwords    PasswordAuthenticator
	Auther       *RouteAuthenticator
	Activity     ActivitySink
	Routes       *UsersControllerRoutes
	Views        *UsersControllerViews
	ErrorHandler func(c router.Context, err error) error
}

type UsersControllerOption func(*UsersController) *UsersController

func WithControllerRepository(repo RepositoryManager) UsersControllerOption {
	return func(uc *UsersController) *UsersController {
		uc.Repo = repo
		return uc
	}
}

func WithControllerAuthenticator(auther *RouteAuthenticator) UsersControllerOption {
	return func(uc *UsersController) *UsersController {
		uc.Auther = auther
		return uc
	}
}

func WithControllerPasswords(passwords PasswordAuthenticator) UsersControllerOption {
	return func(uc *UsersController) *UsersController {
		uc.Passwords = passwords
		return uc
	}
}

func WithControllerLogger(logger Logger) UsersControllerOption {
	return func(uc *UsersController) *UsersController {
		uc.Logger = logger
		return uc
	}
}

func WithControllerActivitySink(sink ActivitySink) UsersControllerOption {
	return func(uc *UsersController) *UsersController {
		uc.Activity = sink
		return uc
	}
}

func WithControllerDebug(debug bool) UsersControllerOption {
	return func(uc *UsersController) *UsersController {
		uc.Debug = debug
		return uc
	}
}

func WithControllerHashid(enabled bool) UsersControllerOption {
	return func(uc *UsersController) *UsersController {
		uc.UseHashid = enabled
		return uc
	}
}

func NewUsersController(opts ...UsersControllerOption) *UsersController {
	c := &UsersController{
		Logger:    defLogger{},
		Prefix:    "/users",
		Passwords: BcryptPasswords{},
		Routes: &UsersControllerRoutes{
			New:      "/new",
			Register: "/",
			Login:    "/login",
			Logout:   "/logout",
			Profile:  "/profile",
		},
		Views: &UsersControllerViews{
			Register: "users/new",
			Login:    "users/login",
			Profile:  "users/profile",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in users controller...")
	}

	if c.Auther == nil {
		panic("Missing RouteAuthenticator in users controller...")
	}

	c.Logger = ensureLogger(c.Logger)
	c.Activity = normalizeActivitySink(c.Activity, c.Logger)

	if c.ErrorHandler == nil {
		c.ErrorHandler = func(ctx router.Context, err error) error {
			return renderServerError(ctx, c.Logger, err)
		}
	}

	return c
}

func (a *UsersController) path(route string) string {
	return strings.TrimRight(a.Prefix, "/") + route
}

func (a *UsersController) RegistrationShow(ctx router.Context) error {
	return ctx.Render(a.Views.Register, MergeTemplateData(ctx, router.ViewContext{
		"errors": map[string]string{},
		"record": RegistrationCreatePayload{},
	}))
}

// RegistrationCreatePayload is the form payload
type RegistrationCreatePayload struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will validate the payload
func (r RegistrationCreatePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

func (a *UsersController) RegistrationCreate(ctx router.Context) error {
	payload := new(RegistrationCreatePayload)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("register user parse payload", "error", err)
		return ctx.Status(fiber.StatusBadRequest).Render(a.Views.Register, MergeTemplateData(ctx, router.ViewContext{
			"errors": map[string]string{"form": "Failed to parse form"},
			"record": RegistrationCreatePayload{},
		}))
	}

	payload.Email = strings.TrimSpace(payload.Email)

	if err := payload.Validate(); err != nil {
		a.Logger.Info("register user validate payload", "error", err)
		return ctx.Status(fiber.StatusBadRequest).Render(a.Views.Register, MergeTemplateData(ctx, router.ViewContext{
			"errors": FormatValidationErrorToMap(err),
			"record": RegistrationCreatePayload{Email: payload.Email},
		}))
	}

	if a.Debug {
		a.Logger.Debug("register user", "payload", print.MaybePrettyJSON(RegistrationCreatePayload{Email: payload.Email, Password: redacted}))
	}

	var res *RegisterUserResponse
	req := RegisterUserMessage{
		Email:     payload.Email,
		Password:  payload.Password,
		UseHashid: a.UseHashid,
		OnResponse: func(resp *RegisterUserResponse) {
			res = resp
		},
	}

	registerUser := NewRegisterUserHandler(a.Repo, a.Passwords)
	if err := registerUser.Execute(ctx.Context(), req); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	if res == nil || res.User == nil {
		return a.ErrorHandler(ctx, ErrUserNotFound)
	}

	if !res.Created {
		recordActivity(ctx.Context(), a.Activity, a.Logger, ActivityEvent{
			EventType: ActivityEventDuplicateRegister,
			UserID:    res.User.ID.String(),
		})
		return ctx.Redirect(
			RedirectWithMessage(a.path(a.Routes.Login), MessageAccountExists),
			fiber.StatusSeeOther,
		)
	}

	if err := a.Auther.Login(ctx, res.User); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	recordActivity(ctx.Context(), a.Activity, a.Logger, ActivityEvent{
		EventType: ActivityEventUserRegistered,
		UserID:    res.User.ID.String(),
	})

	return ctx.Redirect(a.path(a.Routes.Profile), fiber.StatusSeeOther)
}

func (a *UsersController) LoginShow(ctx router.Context) error {
	var message any
	if m := ctx.Query("message", ""); m != "" {
		message = m
	}

	return ctx.Render(a.Views.Login, MergeTemplateData(ctx, router.ViewContext{
		"message": message,
	}))
}

// LoginRequest payload
type LoginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

func (a *UsersController) LoginPost(ctx router.Context) error {
	payload := new(LoginRequest)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Info("login parse payload", "error", err)
		return a.rejectLogin(ctx, payload)
	}

	if err := payload.Validate(); err != nil {
		return a.rejectLogin(ctx, payload)
	}

	if a.Debug {
		a.Logger.Debug("login", "payload", print.MaybePrettyJSON(LoginRequest{Email: payload.Email, Password: redacted}))
	}

	var res *LoginUserResponse
	req := LoginUserMessage{
		Email:    payload.Email,
		Password: payload.Password,
		OnResponse: func(resp *LoginUserResponse) {
			res = resp
		},
	}

	login := NewLoginUserHandler(a.Repo.Users(), a.Passwords)
	if err := login.Execute(ctx.Context(), req); err != nil {
		if IsInvalidCredentials(err) {
			return a.rejectLogin(ctx, payload)
		}
		return a.ErrorHandler(ctx, err)
	}

	if res == nil || res.User == nil {
		return a.ErrorHandler(ctx, ErrUserNotFound)
	}

	if err := a.Auther.Login(ctx, res.User); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	recordActivity(ctx.Context(), a.Activity, a.Logger, ActivityEvent{
		EventType: ActivityEventLoginSuccess,
		UserID:    res.User.ID.String(),
	})

	return ctx.Redirect(a.path(a.Routes.Profile), fiber.StatusSeeOther)
}

func (a *UsersController) rejectLogin(ctx router.Context, payload *LoginRequest) error {
	recordActivity(ctx.Context(), a.Activity, a.Logger, ActivityEvent{
		EventType: ActivityEventLoginFailure,
		Email:     strings.TrimSpace(payload.Email),
	})
	return ctx.Redirect(
		RedirectWithMessage(a.path(a.Routes.Login), MessageInvalidCredentials),
		fiber.StatusSeeOther,
	)
}

func (a *UsersController) LogOut(ctx router.Context) error {
	event := ActivityEvent{EventType: ActivityEventLogout}
	if user, ok := CurrentUser(ctx); ok {
		event.UserID = user.ID.String()
	} else if id, ok := a.Auther.SessionUserID(ctx); ok {
		event.UserID = id
	}

	a.Auther.Logout(ctx)
	recordActivity(ctx.Context(), a.Activity, a.Logger, event)

	return ctx.Redirect("/", fiber.StatusFound)
}

func (a *UsersController) ProfileShow(ctx router.Context) error {
	user, ok := CurrentUser(ctx)
	if !ok {
		return ctx.Redirect(
			RedirectWithMessage(a.path(a.Routes.Login), MessageAuthRequired),
			fiber.StatusFound,
		)
	}

	return ctx.Render(a.Views.Profile, MergeTemplateData(ctx, router.ViewContext{
		"user": user.Profile(),
	}))
}

// FormatValidationErrorToMap flattens ozzo validation errors for templates
func FormatValidationErrorToMap(err error) map[string]string {
	out := map[string]string{}
	if errs, ok := err.(validation.Errors); ok {
		for field, fieldErr := range errs {
			out[field] = fieldErr.Error()
		}
		return out
	}
	if err != nil {
		out["form"] = err.Error()
	}
	return out
}
