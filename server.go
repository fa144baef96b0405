package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-router"
)

// NewServer builds a fiber-backed HTTP server with the auth routes mounted.
// Callers remain free to register additional routes on srv.Router() before
// serving.
func NewServer(opts ...AuthControllerOption) router.Server[*fiber.App] {
	srv := router.NewFiberAdapter(func(a *fiber.App) *fiber.App {
		return router.DefaultFiberOptions(fiber.New(fiber.Config{
			UnescapePath:  true,
			StrictRouting: false,
		}))
	})

	RegisterAuthRoutes(srv.Router(), opts...)

	return srv
}
