package app

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/km-arc/go-spring/framework/aop"
	"github.com/km-arc/go-spring/framework/autowire"
	"github.com/km-arc/go-spring/framework/config"
	"github.com/km-arc/go-spring/framework/container"
	"github.com/km-arc/go-spring/framework/loader"
	"github.com/km-arc/go-spring/framework/tx"
)

// Application is the top-level runtime — the ClassPathXmlApplicationContext
// of this design. It assembles the container, the post-processing pipeline
// and the definition reader, so user code configures components
// declaratively and resolves them wired and proxied.
type Application struct {
	Config       *config.Config
	Container    *container.Container
	Types        *loader.TypeRegistry
	Capabilities *aop.CapabilityRegistry
	Logger       *zap.Logger

	interception *aop.InterceptionProcessor
	reader       *loader.Reader
}

// New bootstraps the application: env configuration, a structured logger
// (development encoding when APP_DEBUG is set), the container, and the two
// standard post-processors — autowire field injection, then interception
// wrapping.
//
//	application := app.New()
//	loader.RegisterType[UserServiceImpl](application.Types, "UserServiceImpl", NewUserServiceImpl)
//	aop.RegisterCapability[UserService](application.Capabilities, newUserServiceProxy)
//	if err := application.LoadDefinitions("components.yaml"); err != nil { ... }
func New(envFiles ...string) *Application {
	cfg := config.Load(envFiles...)

	var logger *zap.Logger
	if cfg.App.Debug {
		logger, _ = zap.NewDevelopment()
	} else {
		logger, _ = zap.NewProduction()
	}

	c := container.New(container.WithLogger(logger))
	caps := aop.NewCapabilityRegistry()

	interception := aop.NewInterceptionProcessor(caps, aop.NewLoggingInterceptor(logger))
	interception.SetLogger(logger)
	interception.Exclude(func(_ string, instance any) bool {
		_, isDB := instance.(*sql.DB)
		return isDB
	})

	c.Use(autowire.NewProcessor(c))
	c.Use(interception)

	types := loader.NewTypeRegistry()

	return &Application{
		Config:       cfg,
		Container:    c,
		Types:        types,
		Capabilities: caps,
		Logger:       logger,
		interception: interception,
		reader:       loader.NewReader(c, types),
	}
}

// LoadDefinitions reads a YAML component definitions file into the
// container.
func (a *Application) LoadDefinitions(path string) error {
	return a.reader.LoadFile(path)
}

// OpenDatabase opens the configured data source and registers it under
// "dataSource", so descriptors can reference it.
func (a *Application) OpenDatabase() (*sql.DB, error) {
	db, err := sql.Open(a.Config.DB.Driver, a.Config.DB.DSN())
	if err != nil {
		return nil, fmt.Errorf("app: opening data source: %w", err)
	}
	if err := a.Container.RegisterInstance("dataSource", db); err != nil {
		return nil, err
	}
	a.Logger.Info("data source opened", zap.String("driver", a.Config.DB.Driver))
	return db, nil
}

// EnableTransactions registers a DataSourceManager over db under the given
// component name and appends a TransactionInterceptor (built from the
// configured defaults) to every proxy the interception pipeline creates
// from here on.
func (a *Application) EnableTransactions(name string, db *sql.DB) (*tx.DataSourceManager, error) {
	manager := tx.NewDataSourceManager(db)
	manager.SetLogger(a.Logger)
	if err := a.Container.RegisterInstance(name, manager); err != nil {
		return nil, err
	}

	def := tx.NewDefinition()
	def.Isolation = a.Config.Tx.Isolation
	def.Timeout = a.Config.Tx.Timeout
	def.ReadOnly = a.Config.Tx.ReadOnly

	interceptor := tx.NewTransactionInterceptor(manager, def)
	interceptor.SetLogger(a.Logger)
	a.interception.AddInterceptor(interceptor)

	return manager, nil
}

// Resolve is shorthand for the container's Resolve.
func (a *Application) Resolve(name string) (any, error) {
	return a.Container.Resolve(name)
}
