package fiber

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v3"
	"github.com/lborres/whatif/core"
)

// handleRegister returns a handler for the register endpoint
func handleRegister(auth core.AuthHandler) fiber.Handler {
	return func(c fiber.Ctx) error {
		var input core.RegisterInput
		if err := c.Bind().Body(&input); err != nil {
			return handleAuthError(c, core.ErrInvalidRequestBody)
		}
		if err := input.Validate(); err != nil {
			return handleAuthError(c, err)
		}

		if err := auth.Register(c.Context(), input); err != nil {
			return handleAuthError(c, err)
		}

		return c.Status(http.StatusCreated).JSON(core.Succeeded(core.MsgRegistered))
	}
}

// handleLogin returns a handler for the login endpoint
func handleLogin(auth core.AuthHandler) fiber.Handler {
	return func(c fiber.Ctx) error {
		var input core.LoginInput
		if err := c.Bind().Body(&input); err != nil {
			return handleAuthError(c, core.ErrInvalidRequestBody)
		}
		if err := input.Validate(); err != nil {
			return handleAuthError(c, err)
		}

		if err := auth.Login(c.Context(), input); err != nil {
			return handleAuthError(c, err)
		}

		return c.Status(http.StatusOK).JSON(core.Succeeded(core.MsgLoggedIn))
	}
}

// handleLogout returns a handler for the logout endpoint
func handleLogout(auth core.AuthHandler) fiber.Handler {
	return func(c fiber.Ctx) error {
		if err := auth.Logout(c.Context()); err != nil {
			return handleAuthError(c, err)
		}

		return c.Status(http.StatusOK).JSON(core.Succeeded(core.MsgLoggedOut))
	}
}

// handleGetSession returns a handler for the session endpoint
func handleGetSession(auth core.AuthHandler) fiber.Handler {
	return func(c fiber.Ctx) error {
		session, err := auth.Session(c.Context())
		if err != nil {
			return handleAuthError(c, err)
		}

		return c.Status(http.StatusOK).JSON(session)
	}
}

// handleAuthError maps errors to a status and a message safe to show the user
func handleAuthError(c fiber.Ctx, err error) error {
	return c.Status(mapErrorToStatus(err)).JSON(core.Failed(err))
}

// mapErrorToStatus maps core error types to HTTP status codes
func mapErrorToStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	switch {
	case errors.Is(err, core.ErrDuplicateUsername):
		return http.StatusConflict

	case errors.Is(err, core.ErrInvalidCredentials):
		return http.StatusUnauthorized

	case errors.Is(err, core.ErrFieldsRequired),
		errors.Is(err, core.ErrCredentialsRequired),
		errors.Is(err, core.ErrInvalidEmail),
		errors.Is(err, core.ErrPasswordTooShort),
		errors.Is(err, core.ErrInvalidRequestBody),
		errors.Is(err, core.ErrInvalidEncoding):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}
