// Package conf loads and validates the application configuration from a
// yaml config file, environment variables and defaults, backed by viper.
package conf

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// WebServerSettings holds HTTP listener options.
type WebServerSettings struct {
	Port  string // port to listen on
	Debug bool   // enable request debug logging
}

// SecuritySettings holds the shared-secret trust boundary configuration.
type SecuritySettings struct {
	// APISecret is compared against the X-Api-Key header on mutating
	// endpoints. An empty secret disables ingestion auth entirely, which
	// is only acceptable on trusted networks.
	APISecret string
}

// RetentionSettings bounds the in-memory stores.
type RetentionSettings struct {
	MaxDetections    int // detection store cap, oldest evicted first
	MaxAlerts        int // alert store cap
	DefaultPageLimit int // default list page size
}

// MediaSettings configures on-disk snapshot storage.
type MediaSettings struct {
	Path string // directory for detection snapshots
}

// StreamSettings configures the stream endpoint registry.
type StreamSettings struct {
	TTL time.Duration // freshness window for the reported stream URL
}

// LoggingSettings configures optional file logging.
type LoggingSettings struct {
	// File is the path of a rotating JSON log file. Empty means stdout
	// only.
	File string
}

// ClassifierSettings configures priority classification.
type ClassifierSettings struct {
	// PrioritySpecies is the static list of object names (any language
	// variant) that classify a detection as high priority.
	PrioritySpecies []string
}

// Settings is the root configuration object, constructed once at startup
// and passed explicitly to the components that need it.
type Settings struct {
	Debug      bool
	WebServer  WebServerSettings
	Security   SecuritySettings
	Retention  RetentionSettings
	Media      MediaSettings
	Stream     StreamSettings
	Logging    LoggingSettings
	Classifier ClassifierSettings
}

// Load reads the configuration, applying defaults, an optional config.yaml
// and FAUNAWATCH_* environment overrides, in increasing precedence.
func Load() (*Settings, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/faunawatch")
	v.AddConfigPath("/etc/faunawatch")

	v.SetEnvPrefix("faunawatch")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// No config file is fine, defaults plus env apply.
	}

	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}

	return settings, nil
}

// Validate checks invariants that would otherwise surface as runtime faults.
func (s *Settings) Validate() error {
	if s.Retention.MaxDetections <= 0 {
		return fmt.Errorf("retention.maxdetections must be positive, got %d", s.Retention.MaxDetections)
	}
	if s.Retention.MaxAlerts <= 0 {
		return fmt.Errorf("retention.maxalerts must be positive, got %d", s.Retention.MaxAlerts)
	}
	if s.Retention.DefaultPageLimit <= 0 {
		return fmt.Errorf("retention.defaultpagelimit must be positive, got %d", s.Retention.DefaultPageLimit)
	}
	if s.Stream.TTL <= 0 {
		return fmt.Errorf("stream.ttl must be positive, got %s", s.Stream.TTL)
	}
	if s.Media.Path == "" {
		return fmt.Errorf("media.path must not be empty")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("debug", false)
	v.SetDefault("webserver.port", "8080")
	v.SetDefault("webserver.debug", false)
	v.SetDefault("security.apisecret", "")
	v.SetDefault("retention.maxdetections", 1000)
	v.SetDefault("retention.maxalerts", 100)
	v.SetDefault("retention.defaultpagelimit", 50)
	v.SetDefault("media.path", "media")
	v.SetDefault("stream.ttl", 2*time.Hour)
	v.SetDefault("logging.file", "")
	v.SetDefault("classifier.priorityspecies", DefaultPrioritySpecies)
}
