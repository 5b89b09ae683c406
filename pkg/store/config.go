package store

import (
	"fmt"
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"tableflip.dev/tierit/pkg/drag"
)

// Config is what the rest of tierit needs to know about its environment.
type Config interface {
	BasePath() string
	ItemWidth() float64
	Environment() string
	SeedTiers() bool
}

// LoadConfig reads the .tierit file from $TIERIT_CONFIG_PATH or the working
// directory, then applies TIERIT_* environment overrides.
func LoadConfig() (Config, error) {
	v := viper.New()
	v.SetDefault("path", "~/.tierit.db")
	v.SetDefault("itemWidth", drag.DefaultItemWidth)
	v.SetDefault("environment", "production")
	v.SetDefault("seedTiers", true)
	v.SetConfigName(".tierit") // .yaml is implicit
	v.SetEnvPrefix("TIERIT")
	v.AutomaticEnv()

	if override := os.Getenv("TIERIT_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("store: read config file: %w", err)
		}
	}

	path, err := homedir.Expand(v.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("store: expand path: %w", err)
	}
	return Settings{
		Path:  path,
		Width: v.GetFloat64("itemWidth"),
		Env:   v.GetString("environment"),
		Seed:  v.GetBool("seedTiers"),
	}, nil
}

// Settings is a plain Config.
type Settings struct {
	Path  string  `json:"path"`
	Width float64 `json:"itemWidth"`
	Env   string  `json:"environment"`
	Seed  bool    `json:"seedTiers"`
}

func (s Settings) BasePath() string {
	return s.Path
}

// ItemWidth falls back to the default slot width when unset.
func (s Settings) ItemWidth() float64 {
	if s.Width <= 0 {
		return drag.DefaultItemWidth
	}
	return s.Width
}

func (s Settings) Environment() string {
	return s.Env
}

func (s Settings) SeedTiers() bool {
	return s.Seed
}
