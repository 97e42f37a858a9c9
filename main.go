package main

import (
	"go.uber.org/zap"

	_ "github.com/lib/pq"

	demo "github.com/km-arc/go-spring/app"
	spring "github.com/km-arc/go-spring/framework/app"
	"github.com/km-arc/go-spring/framework/container"
)

func main() {
	application := spring.New() // loads .env automatically
	logger := application.Logger
	defer logger.Sync() //nolint:errcheck

	// ── Static bindings: type names and proxyable capabilities ───────────────

	if err := application.Apply(demo.UserConfig{}); err != nil {
		logger.Fatal("applying configuration", zap.Error(err))
	}

	// ── Infrastructure: data source + transaction boundaries ─────────────────

	db, err := application.OpenDatabase()
	if err != nil {
		logger.Fatal("opening database", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	if _, err := application.EnableTransactions("transactionManager", db); err != nil {
		logger.Fatal("enabling transactions", zap.Error(err))
	}

	// ── Declarative components ────────────────────────────────────────────────

	if err := application.LoadDefinitions("components.yaml"); err != nil {
		logger.Fatal("loading component definitions", zap.Error(err))
	}

	// userService comes back as a proxy: every call runs through the
	// logging interceptor and a transaction boundary.
	svc, err := container.ResolveAs[demo.UserService](application.Container, "userService")
	if err != nil {
		logger.Fatal("resolving userService", zap.Error(err))
	}

	if err := svc.Register("alice", "secret"); err != nil {
		logger.Warn("register failed", zap.Error(err))
	}

	ok, err := svc.Login("alice", "secret")
	if err != nil {
		logger.Fatal("login failed", zap.Error(err))
	}
	logger.Info("login result", zap.Bool("ok", ok))
}
