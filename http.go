package auth

import (
	"net/http"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
)

// RouteAuthenticator carries the opaque session token over HTTP: it sets and
// clears the session cookie and guards routes that require a resolved user.
type RouteAuthenticator struct {
	auth                   Authenticator
	cfg                    Config
	cookieDuration         time.Duration
	extendedCookieDuration time.Duration
	Logger                 Logger
	AuthErrorHandler       func(c router.Context, err error) error
	ErrorHandler           func(c router.Context, err error) error
}

var _ HTTPAuthenticator = (*RouteAuthenticator)(nil)

func NewHTTPAuthenticator(auther Authenticator, cfg Config) (*RouteAuthenticator, error) {
	cookieDuration := 24 * time.Hour
	if cfg.GetCookieDuration() > 0 {
		cookieDuration = time.Duration(cfg.GetCookieDuration()) * time.Hour
	}

	extendedCookieDuration := cookieDuration
	if cfg.GetExtendedCookieDuration() > 0 {
		extendedCookieDuration = time.Duration(cfg.GetExtendedCookieDuration()) * time.Hour
	}

	a := &RouteAuthenticator{
		cfg:                    cfg,
		auth:                   auther,
		Logger:                 defLogger{},
		cookieDuration:         cookieDuration,
		extendedCookieDuration: extendedCookieDuration,
	}

	a.ErrorHandler = a.defaultErrHandler
	a.AuthErrorHandler = a.defaultAuthErrHandler

	return a, nil
}

func (a RouteAuthenticator) GetCookieDuration() time.Duration {
	return a.cookieDuration
}

func (a RouteAuthenticator) GetExtendedCookieDuration() time.Duration {
	return a.extendedCookieDuration
}

// Login verifies the credentials and, on success, mints a session and hands
// the token back to the client as an HTTP-only cookie.
func (a *RouteAuthenticator) Login(ctx router.Context, payload LoginPayload) error {
	ok, err := a.auth.ValidLogin(ctx.Context(), payload.GetIdentifier(), payload.GetPassword())
	if err != nil {
		a.Logger.Error("Login verification error", "error", err)
		return err
	}

	if !ok {
		return ErrMismatchedHashAndPassword
	}

	token, err := a.auth.CreateSession(ctx.Context(), payload.GetIdentifier())
	if err != nil {
		a.Logger.Error("Login session error", "error", err)
		return err
	}

	duration := a.cookieDuration
	if payload.GetExtendedSession() {
		duration = a.extendedCookieDuration
	}

	a.setCookieToken(ctx, token, duration)
	return nil
}

// Logout revokes the session identified by the request's token and expires
// the cookie. A token that resolves to no user yields ErrSessionNotFound.
func (a *RouteAuthenticator) Logout(ctx router.Context) error {
	user, err := a.CurrentUser(ctx)
	if err != nil {
		return err
	}

	if err := a.auth.DestroySession(ctx.Context(), user.ID); err != nil {
		a.Logger.Error("Logout destroy session error", "error", err)
		return err
	}

	a.cookieDel(ctx, a.cfg.GetSessionCookieName())
	return nil
}

// CurrentUser resolves the request's session token to a user.
func (a *RouteAuthenticator) CurrentUser(ctx router.Context) (*User, error) {
	token, err := TokenFromRequest(ctx, a.cfg)
	if err != nil {
		return nil, err
	}

	user, err := a.auth.GetUserBySession(ctx.Context(), token)
	if err != nil {
		return nil, err
	}

	if user == nil {
		return nil, ErrSessionNotFound
	}

	return user, nil
}

// ProtectedRoute loads the session user before running the handler, storing
// it both in the router locals and the request context.
func (a *RouteAuthenticator) ProtectedRoute(cfg Config, errorHandler func(router.Context, error) error) router.MiddlewareFunc {
	return func(hf router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			user, err := a.CurrentUser(ctx)
			if err != nil {
				return errorHandler(ctx, err)
			}

			ctx.Locals(cfg.GetContextKey(), user)
			ctx.SetContext(WithContext(ctx.Context(), user))

			return hf(ctx)
		}
	}
}

func (a *RouteAuthenticator) setCookieToken(c router.Context, val string, duration time.Duration) {
	c.Cookie(&router.Cookie{
		Name:     a.cfg.GetSessionCookieName(),
		Value:    val,
		Expires:  time.Now().Add(duration),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

func (a *RouteAuthenticator) cookieDel(c router.Context, name string) {
	c.Cookie(&router.Cookie{
		Name:     name,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

func (a *RouteAuthenticator) defaultAuthErrHandler(c router.Context, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryAuth, "An unexpected authentication error").
			WithCode(errors.CodeUnauthorized)
	}

	a.Logger.Info(
		"Authentication error",
		"error", richErr.Message,
		"text_code", richErr.TextCode,
		"path", c.OriginalURL(),
	)

	return c.JSON(http.StatusForbidden, map[string]any{
		"message":   "Forbidden",
		"text_code": richErr.TextCode,
	})
}

func (a *RouteAuthenticator) defaultErrHandler(c router.Context, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, "An unexpected server error occurred").
			WithCode(errors.CodeInternal)
	}

	a.Logger.Info(
		"Middleware error handler",
		"error", richErr.Message,
		"category", richErr.Category,
	)

	switch richErr.Category {
	case errors.CategoryAuth, errors.CategoryAuthz:
		return a.AuthErrorHandler(c, richErr)
	default:
		if richErr.Code == 0 {
			richErr = richErr.WithCode(http.StatusInternalServerError)
		}
		return c.JSON(richErr.Code, map[string]any{
			"message":   richErr.Message,
			"text_code": richErr.TextCode,
		})
	}
}
