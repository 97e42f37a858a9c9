package app

// ── Configurer ────────────────────────────────────────────────────────────────

// Configurer is a unit of programmatic setup applied during bootstrap —
// the code-first counterpart to a YAML definitions file. Packages exposing
// components implement it to register their type bindings and proxy
// capabilities in one place.
//
//	// Spring: @Configuration
//	// public class UserConfig {
//	//     @Bean public UserService userService() { ... }
//	// }
//
//	type UserConfig struct{}
//
//	func (UserConfig) Configure(a *app.Application) error {
//	    loader.RegisterType[UserServiceImpl](a.Types, "UserServiceImpl", NewUserServiceImpl)
//	    aop.RegisterCapability[UserService](a.Capabilities, newUserServiceProxy)
//	    return nil
//	}
//
//	application.Apply(UserConfig{})
type Configurer interface {
	Configure(a *Application) error
}

// ConfigurerFunc adapts a plain function into a Configurer.
type ConfigurerFunc func(a *Application) error

// Configure implements Configurer.
func (f ConfigurerFunc) Configure(a *Application) error { return f(a) }

// Apply runs each configurer in order, stopping at the first failure.
func (a *Application) Apply(configurers ...Configurer) error {
	for _, c := range configurers {
		if err := c.Configure(a); err != nil {
			return err
		}
	}
	return nil
}
