package billing

import (
	"fmt"

	"github.com/spf13/viper"
)

// Settings control how cost queries are scoped to the workload. All
// fields have working defaults; a YAML settings file overrides them.
type Settings struct {
	ProjectTagKey     string   `mapstructure:"project_tag_key"`
	ProjectTagValues  []string `mapstructure:"project_tag_values"`
	EnvironmentTagKey string   `mapstructure:"environment_tag_key"`
	ServiceTagKey     string   `mapstructure:"service_tag_key"`
	Profile           string   `mapstructure:"profile"`
	Region            string   `mapstructure:"region"`
}

func DefaultSettings() Settings {
	return Settings{
		ProjectTagKey:     "Project",
		ProjectTagValues:  []string{"AI-Validation-Platform"},
		EnvironmentTagKey: "Environment",
		ServiceTagKey:     "Service",
	}
}

// LoadSettings reads the settings file at path on top of the defaults.
// An empty path returns the defaults unchanged.
func LoadSettings(path string) (Settings, error) {
	settings := DefaultSettings()
	if path == "" {
		return settings, nil
	}

	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return Settings{}, fmt.Errorf("failed to read settings file: %w", err)
	}

	if err := v.Unmarshal(&settings); err != nil {
		return Settings{}, fmt.Errorf("failed to parse settings: %w", err)
	}
	return settings, nil
}
