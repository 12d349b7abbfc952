package internal

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config     *Config
	configPath string
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithConfigPath records where the configuration was loaded from, enabling
// live reload of the search ranking weights.
func WithConfigPath(path string) Option {
	return func(a *application) {
		a.configPath = path
	}
}
