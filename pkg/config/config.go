package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the viewer
type Config struct {
	Data  DataConfig
	Plot  PlotConfig
	Track TrackConfig
}

// DataConfig points at shoreline data on disk
type DataConfig struct {
	Dir        string // GSHHG directory with the binary .b files
	Resolution string // c, l, i, h or f
	CacheDir   string // decoded polygon cache, empty for none
}

// PlotConfig holds the initial plot appearance
type PlotConfig struct {
	Projection string // projection spec, name or name:key=value,...
	Colormap   string
	TickMode   string // significant, both, lonlat or latlon
	Grid       bool
	Water      string // color name or #rrggbb, empty keeps the plot default
	Land       string
}

// TrackConfig tunes live track replay
type TrackConfig struct {
	Interval  time.Duration // delay between fixes
	Retention time.Duration // how long the bus retains last values
}

// Load reads configuration from file and environment variables
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("$HOME/.geoplot")

	viper.SetDefault("data.dir", "")
	viper.SetDefault("data.resolution", "c")
	viper.SetDefault("data.cachedir", "")
	viper.SetDefault("plot.projection", "platecarree")
	viper.SetDefault("plot.colormap", "viridis")
	viper.SetDefault("plot.tickmode", "significant")
	viper.SetDefault("plot.grid", true)
	viper.SetDefault("plot.water", "")
	viper.SetDefault("plot.land", "")
	viper.SetDefault("track.interval", time.Second)
	viper.SetDefault("track.retention", time.Minute)

	viper.SetEnvPrefix("GEOPLOT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// It's okay if the config file doesn't exist, we have defaults
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
