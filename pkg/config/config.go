package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/arnavshah/roster-api-go/pkg/models"
)

// Config is the service configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"db"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Log      LogConfig      `mapstructure:"log"`
	Rotation RotationConfig `mapstructure:"rotation"`
}

// ServerConfig controls the HTTP listener
type ServerConfig struct {
	Port    int    `mapstructure:"port"`
	GinMode string `mapstructure:"gin_mode"`
}

// DatabaseConfig selects Postgres when URL is set, SQLite at Path otherwise
type DatabaseConfig struct {
	URL  string `mapstructure:"url"`
	Path string `mapstructure:"path"`
}

// AuthConfig holds the admin and API key secrets
type AuthConfig struct {
	JWTSecret       string        `mapstructure:"jwt_secret"`
	APIMasterSecret string        `mapstructure:"api_master_secret"`
	AdminUsername   string        `mapstructure:"admin_username"`
	AdminPassword   string        `mapstructure:"admin_password"`
	TokenTTL        time.Duration `mapstructure:"token_ttl"`
}

// LogConfig selects the zap encoder and level
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// RotationConfig pins the 12x36 parity anchor
type RotationConfig struct {
	Anchor    string   `mapstructure:"anchor"`
	EvenTeams []string `mapstructure:"even_teams"`
}

// legacyEnv maps keys onto the unprefixed variable names used by older deployments
var legacyEnv = map[string]string{
	"server.port":            "PORT",
	"server.gin_mode":        "GIN_MODE",
	"db.url":                 "DATABASE_URL",
	"db.path":                "DATA_PATH",
	"auth.jwt_secret":        "JWT_SECRET",
	"auth.api_master_secret": "API_MASTER_SECRET",
	"auth.admin_username":    "ADMIN_USERNAME",
	"auth.admin_password":    "ADMIN_PASSWORD",
}

// Load reads configuration from defaults, an optional file and the environment.
// Precedence: environment > file > defaults.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", 8000)
	v.SetDefault("server.gin_mode", "release")
	v.SetDefault("db.url", "")
	v.SetDefault("db.path", "roster.db")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.api_master_secret", "")
	v.SetDefault("auth.admin_username", "admin")
	v.SetDefault("auth.admin_password", "admin123")
	v.SetDefault("auth.token_ttl", "24h")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("rotation.anchor", "202512")
	v.SetDefault("rotation.even_teams", []string{"A", "D"})

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("ROSTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range legacyEnv {
		if err := v.BindEnv(key, "ROSTER_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values every command needs
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid config: server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	switch c.Server.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("invalid config: server.gin_mode must be debug, release or test, got %q", c.Server.GinMode)
	}
	if _, err := models.ParseYearMonth(c.Rotation.Anchor); err != nil {
		return fmt.Errorf("invalid config: rotation.anchor: %w", err)
	}
	for _, t := range c.Rotation.EvenTeams {
		if _, err := models.ParseTeam(t); err != nil {
			return fmt.Errorf("invalid config: rotation.even_teams: %w", err)
		}
	}
	return nil
}

// ValidateServer is Validate plus the signing secrets, which must be set and distinct
func (c *Config) ValidateServer() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return errors.New("invalid config: auth.jwt_secret (JWT_SECRET) is required")
	}
	if strings.TrimSpace(c.Auth.APIMasterSecret) == "" {
		return errors.New("invalid config: auth.api_master_secret (API_MASTER_SECRET) is required")
	}
	if c.Auth.JWTSecret == c.Auth.APIMasterSecret {
		return errors.New("invalid config: auth.jwt_secret and auth.api_master_secret must differ")
	}
	return nil
}

// AnchorMonth returns the parsed rotation anchor. Call after Validate.
func (c *Config) AnchorMonth() models.YearMonth {
	ym, _ := models.ParseYearMonth(c.Rotation.Anchor)
	return ym
}

// AnchorEvenTeams returns the teams working even days during the anchor month
func (c *Config) AnchorEvenTeams() []models.Team {
	teams := make([]models.Team, 0, len(c.Rotation.EvenTeams))
	for _, t := range c.Rotation.EvenTeams {
		teams = append(teams, models.NormalizeTeam(t))
	}
	return teams
}
