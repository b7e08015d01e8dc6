package maintenance

import (
	"fmt"

	"github.com/spf13/viper"
)

// fileConfig is the on-disk shape: a flat template list merged over defaults.
type fileConfig struct {
	Templates []Template `mapstructure:"templates"`
}

// Load reads a YAML template file and merges it over DefaultConfig. Each entry
// replaces the default for its (type, tier). The merged configuration is
// validated before being returned.
func Load(path string) (TieredConfig, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read maintenance config %s: %w", path, err)
	}
	var fc fileConfig
	if err := v.Unmarshal(&fc); err != nil {
		return nil, fmt.Errorf("parse maintenance config %s: %w", path, err)
	}

	for _, tmpl := range fc.Templates {
		byType, ok := cfg[tmpl.Tier]
		if !ok {
			return nil, fmt.Errorf("maintenance config %s: unknown tier %q", path, tmpl.Tier)
		}
		byType[tmpl.Type] = tmpl
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("maintenance config %s: %w", path, err)
	}
	return cfg, nil
}
