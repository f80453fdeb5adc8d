package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. RAILSURAKSHA_HTTP_ADDR.
const EnvPrefix = "RAILSURAKSHA"

type Config struct {
	App struct {
		Env string
	} `mapstructure:"app"`

	HTTP struct {
		Addr string
	} `mapstructure:"http"`

	DB struct {
		Path string
	} `mapstructure:"db"`

	Log struct {
		Path string
	} `mapstructure:"log"`

	Admin struct {
		User string
	} `mapstructure:"admin"`

	Metrics struct {
		Enabled bool
	} `mapstructure:"metrics"`

	Integrations struct {
		RefreshSchedule string        `mapstructure:"refresh_schedule"`
		SimulatedDelay  time.Duration `mapstructure:"simulated_delay"`
	} `mapstructure:"integrations"`
}

// Dev reports whether debug logging should be enabled.
func (c Config) Dev() bool {
	return strings.EqualFold(c.App.Env, "dev")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "prod")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("db.path", "railsuraksha.db")
	v.SetDefault("log.path", "")
	v.SetDefault("admin.user", "admin")
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("integrations.refresh_schedule", "@every 5m")
	v.SetDefault("integrations.simulated_delay", 2*time.Second)
}

// Load reads configuration from defaults, an optional .env file, an optional
// config file at path and RAILSURAKSHA_* environment variables, in increasing
// order of precedence.
func Load(path string) (Config, error) {
	var c Config

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return c, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return c, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("decoding config: %w", err)
	}
	if c.Integrations.SimulatedDelay < 0 {
		return c, fmt.Errorf("integrations.simulated_delay must not be negative")
	}
	return c, nil
}
