package fiber

import (
	"github.com/gofiber/fiber/v3"
	"github.com/lborres/whatif/core"
)

// LocalsUsername is the fiber.Locals key holding the current user on
// guarded routes.
const LocalsUsername = "username"

// BuildProtectedMiddleware creates a Fiber middleware that asks the guard
// before every request and redirects to the login page when nobody is
// logged in.
func (a *Adapter) BuildProtectedMiddleware(guard core.Guard) fiber.Handler {
	return func(c fiber.Ctx) error {
		decision, err := guard.Check(c.Context())
		if err != nil {
			return handleAuthError(c, err)
		}

		if !decision.Admit {
			return c.Redirect().Status(fiber.StatusFound).To(decision.RedirectTo)
		}

		c.Locals(LocalsUsername, decision.Username)
		return c.Next()
	}
}
