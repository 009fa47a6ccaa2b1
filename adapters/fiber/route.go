package fiber

import (
	"fmt"

	"github.com/gofiber/fiber/v3"
	"github.com/lborres/whatif/core"
	"github.com/lborres/whatif/services"
)

type Adapter struct {
	app *fiber.App
}

var _ core.HTTPAdapter = (*Adapter)(nil)

func New(app *fiber.App) *Adapter {
	return &Adapter{app: app}
}

// RegisterRoutes mounts every registered endpoint under the app's base path,
// binding each one to its handler by operation id.
func (a *Adapter) RegisterRoutes(app *core.App) error {
	handlers := map[string]fiber.Handler{
		core.OpRegister:   handleRegister(app.Auth),
		core.OpLogin:      handleLogin(app.Auth),
		core.OpLogout:     handleLogout(app.Auth),
		core.OpGetSession: handleGetSession(app.Auth),
	}

	api := a.app.Group(app.BasePath)
	for _, ep := range services.NewEndpointRegistry().Endpoints() {
		handler, ok := handlers[ep.Metadata.OperationID]
		if !ok {
			return fmt.Errorf("no fiber handler for operation %q (%s %s)", ep.Metadata.OperationID, ep.Method, ep.Path)
		}
		api.Add([]string{ep.Method}, ep.Path, handler)
	}

	return nil
}
