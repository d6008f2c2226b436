package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// loaded is the viper instance behind the last successful LoadConfig call;
// WatchConfig watches through it so the watch sees the same file.
var loaded *viper.Viper

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Default config paths
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath("../configs")
		v.AddConfigPath("../../configs")
		v.AddConfigPath("/etc/shopbot")
		v.AddConfigPath("$HOME/.shopbot")
	}

	// Environment variables, e.g. SHOPBOT_SHOPIFY_ACCESS_TOKEN
	v.SetEnvPrefix("SHOPBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found, use defaults and environment variables
			fmt.Printf("Config file not found, using defaults and environment variables\n")
		} else {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.SetDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	loaded = v

	return config, nil
}

// WatchConfig watches the loaded config file and delivers each valid new
// revision to onChange. Revisions that fail to decode or validate are
// dropped; the previous configuration stays in effect. A no-op when no
// config file was loaded.
func WatchConfig(onChange func(*Config)) {
	if loaded == nil || loaded.ConfigFileUsed() == "" {
		return
	}

	loaded.WatchConfig()
	loaded.OnConfigChange(func(e fsnotify.Event) {
		fmt.Printf("Config file changed: %s\n", e.Name)

		config := &Config{}
		if err := loaded.Unmarshal(config); err != nil {
			fmt.Printf("Failed to decode reloaded config: %v\n", err)
			return
		}
		config.SetDefaults()
		if err := config.Validate(); err != nil {
			fmt.Printf("Reloaded config invalid, keeping previous: %v\n", err)
			return
		}

		if onChange != nil {
			onChange(config)
		}
	})
}
