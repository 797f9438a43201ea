package config

import "time"

// Config represents the complete application configuration
type Config struct {
	Environment  string           `mapstructure:"environment"`
	Server       ServerConfig     `mapstructure:"server"`
	Database     DatabaseConfig   `mapstructure:"database"`
	Storage      StorageConfig    `mapstructure:"storage"`
	Processing   ProcessingConfig `mapstructure:"processing"`
	Gemini       GeminiConfig     `mapstructure:"gemini"`
	YTDLP        YTDLPConfig      `mapstructure:"ytdlp"`
	RateLimiting RateLimitConfig  `mapstructure:"rate_limiting"`
	Security     SecurityConfig   `mapstructure:"security"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxHeaderBytes  int           `mapstructure:"max_header_bytes"`
}

// DatabaseConfig contains sqlite settings
type DatabaseConfig struct {
	Path    string `mapstructure:"path"`
	Verbose bool   `mapstructure:"verbose"`
}

// StorageConfig contains local media storage settings
type StorageConfig struct {
	VideoDir   string `mapstructure:"video_dir"`
	KeepVideos bool   `mapstructure:"keep_videos"`
}

// ProcessingConfig contains pipeline settings
type ProcessingConfig struct {
	FrameInterval     float64       `mapstructure:"frame_interval"`     // seconds between sampled frames
	DefaultTolerance  float64       `mapstructure:"default_tolerance"`  // seconds for timestamp resolution
	ClassifierRetries int           `mapstructure:"classifier_retries"` // retries per frame on transient failures
	RetryBackoff      time.Duration `mapstructure:"retry_backoff"`      // base backoff, doubled per attempt
	JobGracePeriod    time.Duration `mapstructure:"job_grace_period"`   // how long terminal jobs stay queryable
}

// GeminiConfig contains vision model API settings
type GeminiConfig struct {
	APIKey          string        `mapstructure:"api_key"`
	BaseURL         string        `mapstructure:"base_url"`
	Model           string        `mapstructure:"model"`
	Timeout         time.Duration `mapstructure:"timeout"`
	Temperature     float64       `mapstructure:"temperature"`
	TopP            float64       `mapstructure:"top_p"`
	TopK            int           `mapstructure:"top_k"`
	MaxOutputTokens int           `mapstructure:"max_output_tokens"`
}

// YTDLPConfig contains video download settings
type YTDLPConfig struct {
	Path       string        `mapstructure:"path"`
	FFmpegPath string        `mapstructure:"ffmpeg_path"`
	Timeout    time.Duration `mapstructure:"timeout"`
	SubLangs   string        `mapstructure:"sub_langs"`
}

// RateLimitConfig contains rate limiting settings
type RateLimitConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// SecurityConfig contains security settings
type SecurityConfig struct {
	EnableCORS  bool     `mapstructure:"enable_cors"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}
