package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config is the top-level climatiqq configuration.
type Config struct {
	DefaultUser string   `mapstructure:"default_user"`
	Database    Database `mapstructure:"database"`
	Output      Output   `mapstructure:"output"`
	Log         Log      `mapstructure:"log"`
	API         API      `mapstructure:"api"`
	MQTT        MQTT     `mapstructure:"mqtt"`
	Stats       Stats    `mapstructure:"stats"`
	Suggest     Suggest  `mapstructure:"suggest"`
}

// Database selects the storage backend. An empty DSN with the sqlite driver
// means the default file under the config directory.
type Database struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

// Output defines output preferences.
type Output struct {
	Color bool `mapstructure:"color"`
	Width int  `mapstructure:"width"`
}

// Log configures the process logger.
type Log struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// API configures the HTTP server.
type API struct {
	Addr string `mapstructure:"addr"`
}

// MQTT configures the entry ingest subscriber.
type MQTT struct {
	Broker   string `mapstructure:"broker"`
	Topic    string `mapstructure:"topic"`
	ClientID string `mapstructure:"client_id"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	QoS      int    `mapstructure:"qos"`
}

// Stats defines the windows used for recent-activity counts.
type Stats struct {
	RecentDays   int `mapstructure:"recent_days"`
	ActivityDays int `mapstructure:"activity_days"`
}

// Suggest controls how stored entries feed the recommendation engine.
type Suggest struct {
	MaxEntries  int  `mapstructure:"max_entries"`
	SaveHistory bool `mapstructure:"save_history"`
}

// expandPath replaces a leading ~ with the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Load reads configuration from the given path (or the default location),
// applies CLIMATIQQ_* environment overrides, and returns a Config with all
// defaults applied.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("default_user", DefaultUser)
	v.SetDefault("database.driver", DefaultDatabase.Driver)
	v.SetDefault("database.dsn", DefaultDatabase.DSN)
	v.SetDefault("output.color", DefaultOutput.Color)
	v.SetDefault("output.width", DefaultOutput.Width)
	v.SetDefault("log.level", DefaultLog.Level)
	v.SetDefault("log.pretty", DefaultLog.Pretty)
	v.SetDefault("api.addr", DefaultAPI.Addr)
	v.SetDefault("mqtt.broker", DefaultMQTT.Broker)
	v.SetDefault("mqtt.topic", DefaultMQTT.Topic)
	v.SetDefault("mqtt.client_id", DefaultMQTT.ClientID)
	v.SetDefault("mqtt.username", "")
	v.SetDefault("mqtt.password", "")
	v.SetDefault("mqtt.qos", DefaultMQTT.QoS)
	v.SetDefault("stats.recent_days", DefaultStats.RecentDays)
	v.SetDefault("stats.activity_days", DefaultStats.ActivityDays)
	v.SetDefault("suggest.max_entries", DefaultSuggest.MaxEntries)
	v.SetDefault("suggest.save_history", DefaultSuggest.SaveHistory)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(expandPath(cfgFile))
	} else {
		v.AddConfigPath(expandPath(DefaultConfigDir))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Read config file if it exists; missing file is not an error.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.Database.Driver == DriverSQLite {
		if cfg.Database.DSN == "" {
			cfg.Database.DSN = DBPath()
		}
		cfg.Database.DSN = expandPath(cfg.Database.DSN)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported database driver %q (want %s or %s)", c.Database.Driver, DriverSQLite, DriverPostgres)
	}
	if c.Database.Driver == DriverPostgres && c.Database.DSN == "" {
		return errors.New("database.dsn is required for the postgres driver")
	}
	if c.Stats.RecentDays <= 0 || c.Stats.ActivityDays <= 0 {
		return errors.New("stats windows must be positive")
	}
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		return fmt.Errorf("mqtt.qos must be 0, 1, or 2, got %d", c.MQTT.QoS)
	}
	return nil
}

// DBPath returns the full path to the default SQLite database.
func DBPath() string {
	return filepath.Join(expandPath(DefaultConfigDir), DefaultDBName)
}

// ConfigDir returns the expanded configuration directory.
func ConfigDir() string {
	return expandPath(DefaultConfigDir)
}
