package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`

	// Timeouts are expressed in seconds.
	ReadTimeoutSeconds     int `mapstructure:"read_timeout_seconds"     validate:"gte=0"`
	WriteTimeoutSeconds    int `mapstructure:"write_timeout_seconds"    validate:"gte=0"`
	IdleTimeoutSeconds     int `mapstructure:"idle_timeout_seconds"     validate:"gte=0"`
	ShutdownTimeoutSeconds int `mapstructure:"shutdown_timeout_seconds" validate:"gte=0"`

	// AllowedOrigins feeds the CORS middleware. Empty disables cross-origin access.
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	// Driver selects the database/sql driver: "pgx" for PostgreSQL or
	// "sqlite" for a local file or in-memory database.
	Driver string `mapstructure:"driver" validate:"required,oneof=pgx sqlite"`
	URL    string `mapstructure:"url"    validate:"required"`

	MaxOpenConns           int `mapstructure:"max_open_conns"            validate:"gte=0"`
	MaxIdleConns           int `mapstructure:"max_idle_conns"            validate:"gte=0"`
	ConnMaxLifetimeMinutes int `mapstructure:"conn_max_lifetime_minutes" validate:"gte=0"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0,lte=1440"`
	BCryptCost           int    `mapstructure:"bcrypt_cost"            validate:"gte=4,lte=31"`
}
