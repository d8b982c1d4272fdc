package mobile

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config carries the static platform capabilities a facade is built
// against. They are fixed for the facade's lifetime; anything that can
// change at runtime is a signal instead.
type Config struct {
	DataCapable               bool `toml:"data_capable"`
	ActivityIndicatorsEnabled bool `toml:"activity_indicators_enabled"`
}

func DefaultConfig() Config {
	return Config{
		DataCapable:               true,
		ActivityIndicatorsEnabled: true,
	}
}

// LoadConfig overlays a TOML file onto the defaults. Keys absent from
// the file keep their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	var raw Config
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if meta.IsDefined("data_capable") {
		cfg.DataCapable = raw.DataCapable
	}
	if meta.IsDefined("activity_indicators_enabled") {
		cfg.ActivityIndicatorsEnabled = raw.ActivityIndicatorsEnabled
	}
	return cfg, nil
}
