package auth

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// RegisterAuthRoutes mounts the JSON auth API on the given router.
func RegisterAuthRoutes[T any](app router.Router[T], opts ...AuthControllerOption) {

	controller := NewAuthController(opts...)

	app.
		Get(controller.Routes.Welcome, controller.Welcome).
		SetName("welcome.get")

	app.
		Post(controller.Routes.Register, controller.RegistrationCreate).
		SetName("users.post")

	app.
		Post(controller.Routes.Sessions, controller.LoginPost).
		SetName("sessions.post")

	app.
		Delete(controller.Routes.Sessions, controller.LogOut).
		SetName("sessions.delete")

	app.
		Get(controller.Routes.Profile, controller.Profile).
		SetName("profile.get")

	app.
		Post(controller.Routes.PasswordReset, controller.PasswordResetPost).
		SetName("pwd-reset.post")

	app.
		Put(controller.Routes.PasswordReset, controller.PasswordResetExecute).
		SetName("pwd-reset.put")
}

type AuthControllerRoutes struct {
	Welcome       string
	Register      string
	Sessions      string
	Profile       string
	PasswordReset string
}

type AuthController struct {
	Debug        bool
	Logger       Logger
	Routes       *AuthControllerRoutes
	Service      Authenticator
	Auther       HTTPAuthenticator
	ErrorHandler router.ErrorHandler
}

type AuthControllerOption func(*AuthController) *AuthController

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger:       defLogger{},
		ErrorHandler: defaultErrHandler,
		Routes: &AuthControllerRoutes{
			Welcome:       "/",
			Register:      "/users",
			Sessions:      "/sessions",
			Profile:       "/profile",
			PasswordReset: "/reset_password",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Service == nil {
		panic("Missing Authenticator in auth controller...")
	}

	if c.Auther == nil {
		panic("Missing HTTPAuthenticator in auth controller...")
	}

	return c
}

// WithControllerService sets the auth service used by the controller.
func WithControllerService(service Authenticator) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Service = service
		return c
	}
}

// WithControllerHTTPAuth sets the HTTP authenticator used by the controller.
func WithControllerHTTPAuth(auther HTTPAuthenticator) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auther = auther
		return c
	}
}

// WithControllerLogger sets the controller logger.
func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

// WithControllerDebug toggles payload debug output.
func WithControllerDebug(debug bool) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Debug = debug
		return c
	}
}

func (a *AuthController) Welcome(ctx router.Context) error {
	return ctx.JSON(fiber.StatusOK, map[string]any{
		"message": "Bienvenue",
	})
}

// RegistrationCreatePayload is the registration payload
type RegistrationCreatePayload struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will validate the payload
func (r RegistrationCreatePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(1, 100)),
	)
}

func (a *AuthController) RegistrationCreate(ctx router.Context) error {
	payload := new(RegistrationCreatePayload)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("register user parse payload: ", "error", err)
		return ctx.JSON(fiber.StatusBadRequest, map[string]any{
			"message": "email and password required",
		})
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("register user validate payload: ", "error", err)
		return ctx.JSON(fiber.StatusBadRequest, map[string]any{
			"message":    "email and password required",
			"validation": FormatValidationErrorToMap(err),
		})
	}

	if a.Debug {
		fmt.Println("======= AUTH REGISTER ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("============================")
	}

	registerUser := NewRegisterUserHandler(a.Service)
	msg := RegisterUserMessage{Email: payload.Email, Password: payload.Password}

	if err := registerUser.Execute(ctx.Context(), msg); err != nil {
		if IsDuplicateEmail(err) {
			return ctx.JSON(fiber.StatusBadRequest, map[string]any{
				"message": "email already registered",
			})
		}
		a.Logger.Error("register user error: ", "error", err)
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(fiber.StatusOK, map[string]any{
		"email":   payload.Email,
		"message": "user created",
	})
}

// LoginRequest payload
type LoginRequest struct {
	Identifier string `form:"email" json:"email"`
	Password   string `form:"password" json:"password"`
	RememberMe bool   `form:"remember_me" json:"remember_me"`
}

// GetIdentifier returns the identifier
func (r LoginRequest) GetIdentifier() string {
	return r.Identifier
}

// GetPassword will return the password
func (r LoginRequest) GetPassword() string {
	return r.Password
}

// GetExtendedSession reports whether the client asked for a longer cookie
func (r LoginRequest) GetExtendedSession() bool {
	return r.RememberMe
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Identifier,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

func (a *AuthController) LoginPost(ctx router.Context) error {
	payload := new(LoginRequest)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("login parse payload: ", "error", err)
		return ctx.JSON(fiber.StatusBadRequest, map[string]any{
			"message": "email and password required",
		})
	}

	if err := payload.Validate(); err != nil {
		return ctx.JSON(fiber.StatusBadRequest, map[string]any{
			"message":    "email and password required",
			"validation": FormatValidationErrorToMap(err),
		})
	}

	if a.Debug {
		fmt.Println("======= AUTH LOGIN ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("=========================")
	}

	if err := a.Auther.Login(ctx, payload); err != nil {
		return ctx.JSON(fiber.StatusUnauthorized, map[string]any{
			"message": "wrong password",
		})
	}

	return ctx.JSON(fiber.StatusOK, map[string]any{
		"email":   payload.Identifier,
		"message": "logged in",
	})
}

func (a *AuthController) LogOut(ctx router.Context) error {
	if err := a.Auther.Logout(ctx); err != nil {
		return ctx.JSON(fiber.StatusForbidden, map[string]any{
			"message": "Forbidden",
		})
	}
	return ctx.Redirect("/", fiber.StatusFound)
}

func (a *AuthController) Profile(ctx router.Context) error {
	user, err := a.Auther.CurrentUser(ctx)
	if err != nil {
		return ctx.JSON(fiber.StatusForbidden, map[string]any{
			"message": "Forbidden",
		})
	}

	return ctx.JSON(fiber.StatusOK, map[string]any{
		"email": user.Email,
	})
}

// PasswordResetRequestPayload holds values for password reset
type PasswordResetRequestPayload struct {
	Email string `form:"email" json:"email"`
}

// Validate will run validation rules
func (r PasswordResetRequestPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
	)
}

func (a *AuthController) PasswordResetPost(ctx router.Context) error {
	payload := new(PasswordResetRequestPayload)

	if err := ctx.Bind(payload); err != nil {
		return ctx.JSON(fiber.StatusBadRequest, map[string]any{
			"message": "email required",
		})
	}

	if err := payload.Validate(); err != nil {
		return ctx.JSON(fiber.StatusBadRequest, map[string]any{
			"message":    "email required",
			"validation": FormatValidationErrorToMap(err),
		})
	}

	var token string
	handler := NewInitializePasswordResetHandler(a.Service)
	msg := InitializePasswordResetMessage{
		Email: payload.Email,
		OnResponse: func(resp *InitializePasswordResetResponse) {
			token = resp.Token
		},
	}

	if err := handler.Execute(ctx.Context(), msg); err != nil {
		if IsUserNotFound(err) {
			return ctx.JSON(fiber.StatusForbidden, map[string]any{
				"message": "Forbidden",
			})
		}
		a.Logger.Error("password reset error: ", "error", err)
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(fiber.StatusOK, map[string]any{
		"email":       payload.Email,
		"reset_token": token,
	})
}

// PasswordResetExecutePayload carries the single-use token and new password
type PasswordResetExecutePayload struct {
	Email       string `form:"email" json:"email"`
	ResetToken  string `form:"reset_token" json:"reset_token"`
	NewPassword string `form:"new_password" json:"new_password"`
}

// Validate will run validation rules
func (r PasswordResetExecutePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ResetToken, validation.Required),
		validation.Field(&r.NewPassword, validation.Required),
	)
}

func (a *AuthController) PasswordResetExecute(ctx router.Context) error {
	payload := new(PasswordResetExecutePayload)

	if err := ctx.Bind(payload); err != nil {
		return ctx.JSON(fiber.StatusBadRequest, map[string]any{
			"message": "reset_token and new_password required",
		})
	}

	if err := payload.Validate(); err != nil {
		return ctx.JSON(fiber.StatusBadRequest, map[string]any{
			"message":    "reset_token and new_password required",
			"validation": FormatValidationErrorToMap(err),
		})
	}

	handler := NewFinalizePasswordResetHandler(a.Service)
	msg := FinalizePasswordResetMessage{
		Token:    payload.ResetToken,
		Password: payload.NewPassword,
	}

	if err := handler.Execute(ctx.Context(), msg); err != nil {
		if IsInvalidResetToken(err) {
			return ctx.JSON(fiber.StatusForbidden, map[string]any{
				"message": "Forbidden",
			})
		}
		a.Logger.Error("password update error: ", "error", err)
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(fiber.StatusOK, map[string]any{
		"email":   payload.Email,
		"message": "Password updated",
	})
}

// FormatValidationErrorToMap flattens ozzo validation errors into a
// field -> message map suitable for JSON responses.
func FormatValidationErrorToMap(err error) map[string]string {
	out := map[string]string{}
	if err == nil {
		return out
	}

	if verrs, ok := err.(validation.Errors); ok {
		for field, ferr := range verrs {
			if ferr != nil {
				out[field] = ferr.Error()
			}
		}
		return out
	}

	out["payload"] = err.Error()
	return out
}

func defaultErrHandler(c router.Context, err error) error {
	return c.JSON(fiber.StatusInternalServerError, map[string]any{
		"message": err.Error(),
	})
}
