package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

var (
	once    sync.Once
	initErr error
)

// Init initializes the configuration system.
// This should be called once at application startup.
func Init() error {
	once.Do(func() {
		setDefaults()

		viper.SetEnvPrefix("CODIO")
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		viper.AutomaticEnv()

		configPath := filepath.Clean("./config/settings.yaml")
		viper.SetConfigFile(configPath)

		if err := viper.ReadInConfig(); err != nil {
			// Missing config file is fine, defaults and env vars apply.
			if !os.IsNotExist(err) {
				initErr = fmt.Errorf("error reading config file %s: %w", configPath, err)
				return
			}
		}

		if err := validate(); err != nil {
			initErr = fmt.Errorf("invalid configuration: %w", err)
		}
	})

	return initErr
}

// GetConfig returns the current configuration as a struct.
// Init() must be called first.
func GetConfig() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &config, nil
}

// GetString returns a string config value
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetFloat64 returns a float64 config value
func GetFloat64(key string) float64 {
	return viper.GetFloat64(key)
}

// GetDuration returns a time.Duration config value
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}

func validate() error {
	port := viper.GetInt("server.port")
	if port <= 0 || port > 65535 {
		return fmt.Errorf("invalid server port: %d", port)
	}

	if viper.GetFloat64("processing.frame_interval") <= 0 {
		viper.Set("processing.frame_interval", 2.0)
	}
	if viper.GetFloat64("processing.default_tolerance") < 0 {
		viper.Set("processing.default_tolerance", 2.0)
	}
	if viper.GetInt("processing.classifier_retries") < 0 {
		viper.Set("processing.classifier_retries", 3)
	}

	env := viper.GetString("environment")
	if (env == "production" || env == "prod") && viper.GetString("gemini.api_key") == "" {
		return fmt.Errorf("gemini.api_key must be set in production")
	}

	return nil
}

// Validate validates a Config struct (for testing)
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Processing.FrameInterval <= 0 {
		c.Processing.FrameInterval = 2.0
	}
	if c.Processing.DefaultTolerance < 0 {
		c.Processing.DefaultTolerance = 2.0
	}
	return nil
}

func setDefaults() {
	viper.SetDefault("environment", "development")

	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)
	viper.SetDefault("server.shutdown_timeout", 10*time.Second)
	viper.SetDefault("server.max_header_bytes", 1048576)

	// Database defaults
	viper.SetDefault("database.path", "./codio_cache/codio.db")
	viper.SetDefault("database.verbose", false)

	// Storage defaults
	viper.SetDefault("storage.video_dir", "./codio_cache/videos")
	viper.SetDefault("storage.keep_videos", false)

	// Processing defaults
	viper.SetDefault("processing.frame_interval", 2.0)
	viper.SetDefault("processing.default_tolerance", 2.0)
	viper.SetDefault("processing.classifier_retries", 3)
	viper.SetDefault("processing.retry_backoff", 500*time.Millisecond)
	viper.SetDefault("processing.job_grace_period", 10*time.Minute)

	// Gemini defaults
	viper.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com/v1beta")
	viper.SetDefault("gemini.model", "gemini-2.5-flash")
	viper.SetDefault("gemini.timeout", 60*time.Second)
	viper.SetDefault("gemini.temperature", 0.1)
	viper.SetDefault("gemini.top_p", 0.95)
	viper.SetDefault("gemini.top_k", 40)
	viper.SetDefault("gemini.max_output_tokens", 8192)

	// yt-dlp defaults
	viper.SetDefault("ytdlp.path", "yt-dlp")
	viper.SetDefault("ytdlp.ffmpeg_path", "ffmpeg")
	viper.SetDefault("ytdlp.timeout", 10*time.Minute)
	viper.SetDefault("ytdlp.sub_langs", "en.*,en")

	// Rate limiting defaults
	viper.SetDefault("rate_limiting.enabled", true)

	// Security defaults
	viper.SetDefault("security.enable_cors", true)
	viper.SetDefault("security.cors_origins", []string{"*"})
}
