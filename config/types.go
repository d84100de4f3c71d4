package config

// ServerConfig contains the HTTP listener configuration.
type ServerConfig struct {
	Port int `yaml:"port" validate:"gte=0"`
}

// FeedsConfig maps feed keys to upstream GTFS-RT endpoints.
//
// Subway holds the enumerated line-group keys (including the "default"
// alias); LIRR and MNR are the two single-source commuter-rail domains.
type FeedsConfig struct {
	Subway map[string]string `yaml:"subway" validate:"omitempty,dive,url"`
	LIRR   string            `yaml:"lirr" validate:"omitempty,url"`
	MNR    string            `yaml:"mnr" validate:"omitempty,url"`
}

// StopsConfig locates the static stop reference table. Path wins over
// URL when both are set.
type StopsConfig struct {
	URL  string `yaml:"url" validate:"omitempty,url"`
	Path string `yaml:"path"`
}

// FetchConfig bounds a single upstream feed fetch.
type FetchConfig struct {
	TimeoutMS int `yaml:"timeoutMS" validate:"gte=0"`
}

// PollConfig sets the cadence for the watch mode poller.
type PollConfig struct {
	IntervalMS int `yaml:"intervalMS" validate:"gte=0"`
}

// AppConfig is the root configuration structure.
type AppConfig struct {
	Server ServerConfig `yaml:"server"`
	Feeds  FeedsConfig  `yaml:"feeds"`
	Stops  StopsConfig  `yaml:"stops"`
	Fetch  FetchConfig  `yaml:"fetch"`
	Poll   PollConfig   `yaml:"poll"`
}
