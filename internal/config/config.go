package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"

	"github.com/Alexander-D-Karpov/amp/internal/platform"
)

// Config is the engine's runtime configuration, loaded through viper
// from environment variables (KIRA_* prefixed), a config file, and
// built-in defaults, in that precedence order.
type Config struct {
	Debug bool `mapstructure:"debug"`

	Audio struct {
		SampleRate      int  `mapstructure:"sample_rate"`
		BufferSize      int  `mapstructure:"buffer_size"`
		FrameRingSize   int  `mapstructure:"frame_ring_size"`
		LowLatencyMode  bool `mapstructure:"low_latency_mode"`
		CommandCapacity int  `mapstructure:"command_capacity"`
		ErrorCapacity   int  `mapstructure:"error_capacity"`
	} `mapstructure:"audio"`

	Network struct {
		RequestsPerSecond float64 `mapstructure:"requests_per_second"`
		BurstSize         int     `mapstructure:"burst_size"`
		Timeout           int     `mapstructure:"timeout"`
		Retries           int     `mapstructure:"retries"`
		UserAgent         string  `mapstructure:"user_agent"`
	} `mapstructure:"network"`

	Diagnostics struct {
		Enabled  bool   `mapstructure:"enabled"`
		DBPath   string `mapstructure:"db_path"`
		CacheDir string `mapstructure:"cache_dir"`
	} `mapstructure:"diagnostics"`

	Spatial struct {
		MinDecibels     float64 `mapstructure:"min_decibels"`
		EarDistance     float64 `mapstructure:"ear_distance"`
		MinEarAmplitude float64 `mapstructure:"min_ear_amplitude"`
	} `mapstructure:"spatial"`
}

// Load reads configuration from configPath (if non-empty), or from the
// platform config directory / ./configs / cwd otherwise, with
// environment overrides above the file and defaults beneath it.
func Load(configPath string) (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		configDir, err := platform.GetConfigDir()
		if err != nil {
			return nil, err
		}
		viper.AddConfigPath(configDir)
		viper.AddConfigPath("./configs")
		viper.AddConfigPath(".")
	}

	viper.SetEnvPrefix("KIRA")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := ensureDirectories(&cfg); err != nil {
		return nil, err
	}

	optimizeForPlatform(&cfg)

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("debug", false)

	viper.SetDefault("audio.sample_rate", 48000)
	viper.SetDefault("audio.buffer_size", getDefaultBufferSize())
	viper.SetDefault("audio.frame_ring_size", 16384)
	viper.SetDefault("audio.low_latency_mode", false)
	viper.SetDefault("audio.command_capacity", 8)
	viper.SetDefault("audio.error_capacity", 1)

	viper.SetDefault("network.requests_per_second", 8.0)
	viper.SetDefault("network.burst_size", 4)
	viper.SetDefault("network.timeout", 30)
	viper.SetDefault("network.retries", 3)
	viper.SetDefault("network.user_agent", "kira/1.0.0")

	cacheDir, _ := platform.GetCacheDir()
	viper.SetDefault("diagnostics.enabled", false)
	viper.SetDefault("diagnostics.db_path", filepath.Join(cacheDir, "diagnostics.db"))
	viper.SetDefault("diagnostics.cache_dir", cacheDir)

	viper.SetDefault("spatial.min_decibels", -60.0)
	viper.SetDefault("spatial.ear_distance", 0.1)
	viper.SetDefault("spatial.min_ear_amplitude", 0.5)
}

func getDefaultBufferSize() int {
	switch runtime.GOOS {
	case "linux":
		return 1024
	case "windows", "darwin":
		return 512
	default:
		return 1024
	}
}

func optimizeForPlatform(cfg *Config) {
	if !cfg.Audio.LowLatencyMode {
		return
	}
	switch runtime.GOOS {
	case "windows", "darwin":
		cfg.Audio.BufferSize = 256
	default:
		cfg.Audio.BufferSize = 512
	}
}

func ensureDirectories(cfg *Config) error {
	dirs := []string{cfg.Diagnostics.CacheDir, filepath.Dir(cfg.Diagnostics.DBPath)}
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}

// Save persists the current configuration to the platform config
// directory as config.yaml.
func (c *Config) Save() error {
	configDir, err := platform.GetConfigDir()
	if err != nil {
		return err
	}
	configFile := filepath.Join(configDir, "config.yaml")
	return viper.WriteConfigAs(configFile)
}
