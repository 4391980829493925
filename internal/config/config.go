package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// STORAGE_DRIVER 支持的存储驱动。
const (
	DriverJSON = "json"
	DriverBolt = "bolt"
)

const (
	defaultPort              = "3000"
	defaultSkipCodeThreshold = 400
	defaultJSONPath          = "data/employees.json"
	defaultBoltPath          = "data/employees.db"
)

// Config 聚合整个服务的配置项。
type Config struct {
	Server  ServerConfig
	Log     LogConfig
	Storage StorageConfig
	Metrics MetricsConfig
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Addr string
}

// LogConfig 描述应用日志与请求日志配置。
type LogConfig struct {
	Level  string
	Format string
	// SkipCodeThreshold 低于该状态码的请求不记录日志。
	SkipCodeThreshold int
}

// StorageConfig 选择持久化适配器。
type StorageConfig struct {
	Driver string
	Path   string
}

// MetricsConfig 控制是否暴露 /metrics。
type MetricsConfig struct {
	Enabled bool
}

// fileConfig 对应 CONFIG_FILE 指定的可选 YAML 文件。
type fileConfig struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Log struct {
		Level             string `yaml:"level"`
		Format            string `yaml:"format"`
		SkipCodeThreshold *int   `yaml:"skipCodeThreshold"`
	} `yaml:"log"`
	Storage struct {
		Driver string `yaml:"driver"`
		Path   string `yaml:"path"`
	} `yaml:"storage"`
	Metrics struct {
		Enabled *bool `yaml:"enabled"`
	} `yaml:"metrics"`
}

// Load 先读取 CONFIG_FILE 指定的 YAML 文件，再用环境变量覆盖。
func Load() (*Config, error) {
	file, err := loadFile(strings.TrimSpace(os.Getenv("CONFIG_FILE")))
	if err != nil {
		return nil, err
	}

	server, err := loadServerConfig(file)
	if err != nil {
		return nil, err
	}

	logCfg, err := loadLogConfig(file)
	if err != nil {
		return nil, err
	}

	storage, err := loadStorageConfig(file)
	if err != nil {
		return nil, err
	}

	metrics, err := loadMetricsConfig(file)
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, Log: logCfg, Storage: storage, Metrics: metrics}, nil
}

func loadFile(path string) (fileConfig, error) {
	var fc fileConfig
	if path == "" {
		return fc, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fc, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fc, fmt.Errorf("failed to parse config file: %w", err)
	}
	return fc, nil
}

// loadServerConfig 解析服务器监听地址。
func loadServerConfig(fc fileConfig) (ServerConfig, error) {
	port := getEnvOrDefault("PORT", fc.Server.Port)
	if port == "" {
		port = defaultPort
	}

	if strings.Contains(port, ":") {
		// ":3000" 或 "127.0.0.1:3000" 直接作为监听地址。
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}
	if _, err := strconv.Atoi(port); err != nil {
		return ServerConfig{}, fmt.Errorf("invalid PORT value %q: %w", port, err)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

func loadLogConfig(fc fileConfig) (LogConfig, error) {
	threshold := defaultSkipCodeThreshold
	if fc.Log.SkipCodeThreshold != nil {
		threshold = *fc.Log.SkipCodeThreshold
	}
	override, err := parseOptionalIntEnv("SKIP_CODE_THRESHOLD")
	if err != nil {
		return LogConfig{}, err
	}
	if override != nil {
		threshold = *override
	}

	format := strings.ToLower(getEnvOrDefault("LOG_FORMAT", orDefault(fc.Log.Format, "text")))
	if format != "text" && format != "json" {
		return LogConfig{}, fmt.Errorf("invalid LOG_FORMAT value %q: want text or json", format)
	}

	return LogConfig{
		Level:             getEnvOrDefault("LOG_LEVEL", orDefault(fc.Log.Level, "info")),
		Format:            format,
		SkipCodeThreshold: threshold,
	}, nil
}

func loadStorageConfig(fc fileConfig) (StorageConfig, error) {
	driver := strings.ToLower(getEnvOrDefault("STORAGE_DRIVER", orDefault(fc.Storage.Driver, DriverJSON)))

	var fallback string
	switch driver {
	case DriverJSON:
		fallback = defaultJSONPath
	case DriverBolt:
		fallback = defaultBoltPath
	default:
		return StorageConfig{}, fmt.Errorf("invalid STORAGE_DRIVER value %q: want %s or %s", driver, DriverJSON, DriverBolt)
	}

	return StorageConfig{
		Driver: driver,
		Path:   getEnvOrDefault("STORAGE_PATH", orDefault(fc.Storage.Path, fallback)),
	}, nil
}

func loadMetricsConfig(fc fileConfig) (MetricsConfig, error) {
	enabled := true
	if fc.Metrics.Enabled != nil {
		enabled = *fc.Metrics.Enabled
	}
	enabled, err := parseBoolEnv("METRICS_ENABLED", enabled)
	if err != nil {
		return MetricsConfig{}, err
	}
	return MetricsConfig{Enabled: enabled}, nil
}

func orDefault(value, defaultValue string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return defaultValue
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
