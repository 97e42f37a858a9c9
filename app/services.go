// Package app holds the demo components wired by main.go: a user service
// resolved from the container, proxied, and run inside transaction
// boundaries.
package app

import (
	"database/sql"
	"errors"

	"github.com/km-arc/go-spring/framework/aop"
	spring "github.com/km-arc/go-spring/framework/app"
	"github.com/km-arc/go-spring/framework/loader"
)

// ErrUserNotFound is returned when login finds no matching user row.
var ErrUserNotFound = errors.New("app: user not found")

// UserService is the demo capability the container proxies.
type UserService interface {
	Login(username, password string) (bool, error)
	Register(username, password string) error
}

// UserServiceImpl backs UserService with plain SQL. DataSource and
// MaxRetries are populated by the container from components.yaml.
type UserServiceImpl struct {
	DataSource *sql.DB
	MaxRetries int
}

// NewUserServiceImpl is the zero-arg constructor candidate.
func NewUserServiceImpl() *UserServiceImpl {
	return &UserServiceImpl{}
}

// NewUserServiceImplWithDB is the one-arg candidate, used when the
// descriptor supplies the data source as a constructor argument instead of
// a property.
func NewUserServiceImplWithDB(db *sql.DB) *UserServiceImpl {
	return &UserServiceImpl{DataSource: db}
}

// Login checks the stored password for username.
func (s *UserServiceImpl) Login(username, password string) (bool, error) {
	var stored string
	err := s.DataSource.QueryRow(
		"SELECT password FROM users WHERE username = $1", username).Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		return false, ErrUserNotFound
	}
	if err != nil {
		return false, err
	}
	return stored == password, nil
}

// Register inserts a new user row.
func (s *UserServiceImpl) Register(username, password string) error {
	_, err := s.DataSource.Exec(
		"INSERT INTO users (username, password) VALUES ($1, $2)", username, password)
	return err
}

// ── Proxy stub ────────────────────────────────────────────────────────────────

// userServiceProxy renders a Dispatcher as UserService.
type userServiceProxy struct {
	*aop.Dispatcher
}

func (p *userServiceProxy) Login(username, password string) (bool, error) {
	out, err := p.Call("Login", username, password)
	if err != nil {
		return false, err
	}
	return out[0].(bool), nil
}

func (p *userServiceProxy) Register(username, password string) error {
	_, err := p.Call("Register", username, password)
	return err
}

// ── Registration ──────────────────────────────────────────────────────────────

// UserConfig registers the demo's type bindings and proxy capabilities
// during bootstrap.
type UserConfig struct{}

// Configure implements app.Configurer.
func (UserConfig) Configure(a *spring.Application) error {
	loader.RegisterType[UserServiceImpl](a.Types, "UserServiceImpl",
		NewUserServiceImpl, NewUserServiceImplWithDB)
	loader.RegisterType[UserService](a.Types, "UserService")
	aop.RegisterCapability[UserService](a.Capabilities, func(d *aop.Dispatcher) UserService {
		return &userServiceProxy{d}
	})
	return nil
}
