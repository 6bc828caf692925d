package config

type ServerConfig struct {
	Host string `env:"HOST" envDefault:"0.0.0.0"`
	Port int    `env:"PORT" envDefault:"8000"`

	// DefaultOwner scopes requests that do not carry a user_id
	DefaultOwner string `env:"DEFAULT_OWNER" envDefault:"mvp_demo_user_2024"`
}
