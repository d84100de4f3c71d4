package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const nyctBase = "https://api-endpoint.mta.info/Dataservice/mtagtfsfeeds/"

// DefaultSubwayFeeds enumerates the NYCT subway line-group feeds. The
// "default" key is the alias for the 1/2/3/4/5/6/7/S group feed.
func DefaultSubwayFeeds() map[string]string {
	return map[string]string{
		"ace":     nyctBase + "nyct%2Fgtfs-ace",
		"bdfm":    nyctBase + "nyct%2Fgtfs-bdfm",
		"g":       nyctBase + "nyct%2Fgtfs-g",
		"jz":      nyctBase + "nyct%2Fgtfs-jz",
		"l":       nyctBase + "nyct%2Fgtfs-l",
		"nqrw":    nyctBase + "nyct%2Fgtfs-nqrw",
		"si":      nyctBase + "nyct%2Fgtfs-si",
		"default": nyctBase + "nyct%2Fgtfs",
	}
}

// Default returns the configuration used when config.yml is absent or
// leaves fields unset.
func Default() AppConfig {
	return AppConfig{
		Server: ServerConfig{Port: 16180},
		Feeds: FeedsConfig{
			Subway: DefaultSubwayFeeds(),
			LIRR:   nyctBase + "lirr%2Fgtfs-lirr",
			MNR:    nyctBase + "mnr%2Fgtfs-mnr",
		},
		Stops: StopsConfig{Path: "stops.txt"},
		Fetch: FetchConfig{TimeoutMS: 10000},
		Poll:  PollConfig{IntervalMS: 30000},
	}
}

// Load reads and validates the configuration from the given path, or
// from config.yml in the working directory when path is empty. A
// missing default file is not an error; Default() is returned.
func Load(path string) (AppConfig, error) {
	explicit := path != ""
	if !explicit {
		path = "config.yml"
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return AppConfig{}, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return AppConfig{}, err
	}
	applyDefaults(&cfg)
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

func applyDefaults(cfg *AppConfig) {
	def := Default()
	if cfg.Server.Port == 0 {
		cfg.Server.Port = def.Server.Port
	}
	if len(cfg.Feeds.Subway) == 0 {
		cfg.Feeds.Subway = def.Feeds.Subway
	}
	if cfg.Feeds.LIRR == "" {
		cfg.Feeds.LIRR = def.Feeds.LIRR
	}
	if cfg.Feeds.MNR == "" {
		cfg.Feeds.MNR = def.Feeds.MNR
	}
	if cfg.Stops.URL == "" && cfg.Stops.Path == "" {
		cfg.Stops = def.Stops
	}
	if cfg.Fetch.TimeoutMS == 0 {
		cfg.Fetch.TimeoutMS = def.Fetch.TimeoutMS
	}
	if cfg.Poll.IntervalMS == 0 {
		cfg.Poll.IntervalMS = def.Poll.IntervalMS
	}
}
