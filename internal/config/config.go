package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Duration lets the yaml file use readable values like "5s" or "10m"
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("could not parse duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

type Config struct {
	GuildID   string          `yaml:"guild_id"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Status    StatusConfig    `yaml:"status"`
	Profiles  ProfilesConfig  `yaml:"profiles"`
	Bot       BotConfig       `yaml:"bot"`
	Log       LogConfig       `yaml:"log"`

	// Token comes from the environment, never from the file
	Token string `yaml:"-"`
}

type DashboardConfig struct {
	Addr              string   `yaml:"addr"`
	BroadcastInterval Duration `yaml:"broadcast_interval"`
}

type StatusConfig struct {
	ErrorCap  int `yaml:"error_cap"`
	SampleCap int `yaml:"sample_cap"`
}

type ProfilesConfig struct {
	Path    string   `yaml:"path"`
	URL     string   `yaml:"url"`
	Refresh Duration `yaml:"refresh"`
}

type BotConfig struct {
	HeartbeatInterval Duration `yaml:"heartbeat_interval"`
	SampleInterval    Duration `yaml:"sample_interval"`
	MainCycle         Duration `yaml:"main_cycle"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

func Defaults() Config {
	return Config{
		Dashboard: DashboardConfig{
			Addr:              ":8080",
			BroadcastInterval: Duration(5 * time.Second),
		},
		Status: StatusConfig{
			ErrorCap:  100,
			SampleCap: 1440,
		},
		Profiles: ProfilesConfig{
			Path:    "data/profiles.json",
			Refresh: Duration(10 * time.Minute),
		},
		Bot: BotConfig{
			HeartbeatInterval: Duration(30 * time.Second),
			SampleInterval:    Duration(time.Minute),
			MainCycle:         Duration(30 * time.Second),
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  20,
			MaxBackups: 5,
		},
	}
}

// Load reads the yaml file on top of the defaults and pulls the token
// from the environment (a .env file is honoured when present). A missing
// config file just means "all defaults"
func Load(path string) (Config, error) {
	cfg := Defaults()

	// Best effort, running without a .env file is fine
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("could not read config file %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("could not parse config file %s: %w", path, err)
	}

	cfg.Token = os.Getenv("CAPITOL_TOKEN")
	return cfg, nil
}
