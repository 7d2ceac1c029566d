package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Valkey    ValkeyConfig    `mapstructure:"valkey"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Matrix    MatrixConfig    `mapstructure:"matrix"`
	Solver    SolverConfig    `mapstructure:"solver"`
	Geometry  GeometryConfig  `mapstructure:"geometry"`
	Temporal  TemporalConfig  `mapstructure:"temporal"`
}

type ServerConfig struct {
	Port            int `mapstructure:"port"`
	ReadTimeout     int `mapstructure:"read_timeout"`
	WriteTimeout    int `mapstructure:"write_timeout"`
	OptimizeTimeout int `mapstructure:"optimize_timeout"`
}

type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxConns int32  `mapstructure:"max_conns"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type NATSConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
}

type ValkeyConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	OTLPAddr    string `mapstructure:"otlp_addr"`
	Enabled     bool   `mapstructure:"enabled"`
}

// Matrix providers.
const (
	MatrixOSRM      = "osrm"
	MatrixORS       = "ors"
	MatrixHaversine = "haversine"
)

type MatrixConfig struct {
	Provider string `mapstructure:"provider"`
	BaseURL  string `mapstructure:"base_url"`
	APIKey   string `mapstructure:"api_key"`
	Profile  string `mapstructure:"profile"`
	Timeout  int    `mapstructure:"timeout"`   // seconds
	CacheTTL int    `mapstructure:"cache_ttl"` // seconds, 0 disables
	SpeedKmh int    `mapstructure:"speed_kmh"` // haversine only
}

// Solver modes.
const (
	SolverHTTP       = "http"
	SolverSubprocess = "subprocess"
)

type SolverConfig struct {
	Mode    string   `mapstructure:"mode"`
	URL     string   `mapstructure:"url"`
	Command string   `mapstructure:"command"`
	Args    []string `mapstructure:"args"`
	Timeout int      `mapstructure:"timeout"` // seconds
}

// Geometry providers.
const (
	GeometryOSRM        = "osrm"
	GeometryGraphHopper = "graphhopper"
	GeometryNone        = "none"
)

type GeometryConfig struct {
	Provider string `mapstructure:"provider"`
	BaseURL  string `mapstructure:"base_url"`
	APIKey   string `mapstructure:"api_key"`
	Profile  string `mapstructure:"profile"`
	Timeout  int    `mapstructure:"timeout"` // seconds
}

type TemporalConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	HostPort  string `mapstructure:"host_port"`
	Namespace string `mapstructure:"namespace"`
	TaskQueue string `mapstructure:"task_queue"`
}

// Load reads configuration from file and environment variables.
func Load(service string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 45)
	v.SetDefault("server.optimize_timeout", 40)
	v.SetDefault("database.enabled", true)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "stopseq")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "stopsequencer")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("nats.enabled", true)
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("valkey.enabled", true)
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.otlp_addr", "tempo:4317")
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("matrix.provider", MatrixOSRM)
	v.SetDefault("matrix.base_url", "https://router.project-osrm.org")
	v.SetDefault("matrix.api_key", "")
	v.SetDefault("matrix.profile", "driving")
	v.SetDefault("matrix.timeout", 15)
	v.SetDefault("matrix.cache_ttl", 300)
	v.SetDefault("matrix.speed_kmh", 40)
	v.SetDefault("solver.mode", SolverHTTP)
	v.SetDefault("solver.url", "http://localhost:8000/api/solve_ortools")
	v.SetDefault("solver.command", "python3")
	v.SetDefault("solver.args", []string{"scripts/optimize_ortools.py"})
	v.SetDefault("solver.timeout", 30)
	v.SetDefault("geometry.provider", GeometryOSRM)
	v.SetDefault("geometry.base_url", "https://router.project-osrm.org")
	v.SetDefault("geometry.api_key", "")
	v.SetDefault("geometry.profile", "driving")
	v.SetDefault("geometry.timeout", 10)
	v.SetDefault("temporal.enabled", false)
	v.SetDefault("temporal.host_port", "localhost:7233")
	v.SetDefault("temporal.namespace", "default")
	v.SetDefault("temporal.task_queue", "optimize-queue")

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: STOPSEQ_SOLVER_URL → solver.url
	v.SetEnvPrefix("STOPSEQ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	if c.Server.OptimizeTimeout <= 0 {
		errs = append(errs, "server.optimize_timeout must be positive")
	}

	if c.Database.Enabled {
		if c.Database.Host == "" {
			errs = append(errs, "database.host is required")
		}
		if c.Database.Port <= 0 || c.Database.Port > 65535 {
			errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", c.Database.Port))
		}
		if c.Database.User == "" {
			errs = append(errs, "database.user is required")
		}
		if c.Database.DBName == "" {
			errs = append(errs, "database.dbname is required")
		}
		if c.Database.MaxConns < 0 {
			errs = append(errs, "database.max_conns must not be negative")
		}
	}
	if c.NATS.Enabled && c.NATS.URL == "" {
		errs = append(errs, "nats.url is required")
	}
	if c.Valkey.Enabled && c.Valkey.Addr == "" {
		errs = append(errs, "valkey.addr is required")
	}

	switch c.Matrix.Provider {
	case MatrixOSRM, MatrixORS:
		if c.Matrix.BaseURL == "" {
			errs = append(errs, "matrix.base_url is required for provider "+c.Matrix.Provider)
		}
		if c.Matrix.Provider == MatrixORS && c.Matrix.APIKey == "" {
			errs = append(errs, "matrix.api_key is required for provider ors")
		}
	case MatrixHaversine:
		if c.Matrix.SpeedKmh <= 0 {
			errs = append(errs, "matrix.speed_kmh must be positive")
		}
	default:
		errs = append(errs, fmt.Sprintf("matrix.provider must be osrm, ors or haversine, got %q", c.Matrix.Provider))
	}
	if c.Matrix.Timeout <= 0 {
		errs = append(errs, "matrix.timeout must be positive")
	}
	if c.Matrix.CacheTTL < 0 {
		errs = append(errs, "matrix.cache_ttl must not be negative")
	}

	switch c.Solver.Mode {
	case SolverHTTP:
		if c.Solver.URL == "" {
			errs = append(errs, "solver.url is required for mode http")
		}
	case SolverSubprocess:
		if c.Solver.Command == "" {
			errs = append(errs, "solver.command is required for mode subprocess")
		}
	default:
		errs = append(errs, fmt.Sprintf("solver.mode must be http or subprocess, got %q", c.Solver.Mode))
	}
	if c.Solver.Timeout <= 0 {
		errs = append(errs, "solver.timeout must be positive")
	}

	switch c.Geometry.Provider {
	case GeometryOSRM, GeometryGraphHopper:
		if c.Geometry.BaseURL == "" {
			errs = append(errs, "geometry.base_url is required for provider "+c.Geometry.Provider)
		}
		if c.Geometry.Timeout <= 0 {
			errs = append(errs, "geometry.timeout must be positive")
		}
	case GeometryNone:
	default:
		errs = append(errs, fmt.Sprintf("geometry.provider must be osrm, graphhopper or none, got %q", c.Geometry.Provider))
	}

	if c.Temporal.Enabled {
		if c.Temporal.HostPort == "" {
			errs = append(errs, "temporal.host_port is required")
		}
		if c.Temporal.TaskQueue == "" {
			errs = append(errs, "temporal.task_queue is required")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
