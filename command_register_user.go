package auth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

type RegisterUserMessage struct {
	Email    string `json:"email" example:"pepe.rone@example.com" doc:"User email."`
	Password string `json:"password" example:"some_secret_word" doc:"Password"`
}

func (e RegisterUserMessage) Type() string { return "user.register" }

type RegisterUserHandler struct {
	registry AccountRegistrerer
}

// NewRegisterUserHandler creates a handler delegating to the given registrar.
func NewRegisterUserHandler(registry AccountRegistrerer) *RegisterUserHandler {
	return &RegisterUserHandler{registry: registry}
}

func (h *RegisterUserHandler) Execute(ctx context.Context, event RegisterUserMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during user registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterUserHandler) execute(ctx context.Context, event RegisterUserMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	if _, err := h.registry.RegisterUser(ctx, event.Email, event.Password); err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "could not create user")
	}

	return nil
}
