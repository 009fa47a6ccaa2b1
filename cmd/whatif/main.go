package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"gopkg.in/yaml.v3"

	"github.com/lborres/whatif"
	fiberadapter "github.com/lborres/whatif/adapters/fiber"
	"github.com/lborres/whatif/core"
	"github.com/lborres/whatif/pkg/crypto"
	"github.com/lborres/whatif/pkg/logging"
)

func logFormat() string {
	format := []string{
		// Timestamp & Request ID
		"${time}|${requestid}",

		// Response metadata
		"${status}|${latency}",

		// Client info
		"${ip}:${port}",

		// Transfer size
		"${bytesReceived}|${bytesSent}",

		// Request details; bodies carry passwords and are never logged
		"${method}|${path}|${queryParams}",

		// errors
		"${error}",
	}
	return strings.Join(format, "|") + "\n"
}

func main() {
	if err := loadDotEnv(".env"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cfg, err := loadConfig(os.Args[1:], os.Getenv, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if err := logging.Setup(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: os.Stderr}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, os.Stdout); err != nil {
		slog.Error("whatif exited", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg Config, stdout io.Writer) error {
	store, closer, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	passwords, err := crypto.ByName(cfg.Hasher)
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrUnknownHasher, err)
	}

	app := fiber.New()
	app.Use(recoverer.New())
	app.Use(requestid.New(requestid.Config{Generator: crypto.MustID}))
	app.Use(logger.New(logger.Config{
		Format:     logFormat(),
		TimeFormat: "2006/01/02 15:04:05",
		TimeZone:   "Local",
	}))

	var cache whatif.Cache
	if !cfg.DisableCache {
		cache = whatif.NewInMemoryCache(whatif.CacheConfig{TTL: cfg.CacheTTL, MaxSize: cfg.CacheSize})
	}

	adapter := fiberadapter.New(app)
	w, err := whatif.New(whatif.Config{
		Store:           store,
		HTTP:            adapter,
		CacheAdapter:    cache,
		DisableCache:    cfg.DisableCache,
		PasswordHandler: passwords,
		BasePath:        cfg.BasePath,
		LoginPath:       cfg.LoginPath,
	})
	if err != nil {
		return fmt.Errorf("could not create whatif instance: %w", err)
	}

	if cfg.ExportAccounts {
		return exportAccounts(ctx, w.Accounts, stdout)
	}

	// Protect views with the guard middleware
	app.Get("/home", adapter.BuildProtectedMiddleware(w.Guard), HomeHandler)
	app.Get(w.LoginPath, LoginPageHandler(w.BasePath))

	go func() {
		<-ctx.Done()
		_ = app.Shutdown()
	}()

	slog.Info("whatif listening", "addr", cfg.Addr, "store", cfg.Store, "hasher", cfg.Hasher)
	if err := app.Listen(cfg.Addr, fiber.ListenConfig{DisableStartupMessage: true}); err != nil {
		return fmt.Errorf("app.Listen: %w", err)
	}
	return nil
}

// exportAccounts writes every registered account as YAML. Passwords are not
// part of a Profile and never leave the store.
func exportAccounts(ctx context.Context, accounts core.AccountLister, out io.Writer) error {
	profiles, err := accounts.List(ctx)
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(profiles); err != nil {
		return fmt.Errorf("encode accounts: %w", err)
	}
	return enc.Close()
}

// HomeHandler greets the user the guard admitted
func HomeHandler(c fiber.Ctx) error {
	username, _ := c.Locals(fiberadapter.LocalsUsername).(string)
	return c.SendString(fmt.Sprintf("Welcome, %s!", username))
}

// LoginPageHandler is the redirect target of the guard. The page itself is
// served by the frontend; this only points API clients at the login endpoint.
func LoginPageHandler(basePath string) fiber.Handler {
	return func(c fiber.Ctx) error {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Please log in.",
			"login":   basePath + "/login",
		})
	}
}
