package structures

import (
	"net/http"
	"time"
)

type CliFlags struct {
	ConfigPath string
	DebugMode  bool
}

type Route struct {
	Url     string
	Handler http.Handler
}

type Server struct {
	Host string `yaml:"host" mapstructure:"host" validate:"required"`
	Port int    `yaml:"port" mapstructure:"port" validate:"required|uint|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" mapstructure:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" mapstructure:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" mapstructure:"dir" validate:"required|unixPath"`
}

type BackendConfig struct {
	BaseURL     string        `yaml:"baseUrl" mapstructure:"baseUrl" validate:"required|fullUrl"`
	QueryMethod string        `yaml:"queryMethod" mapstructure:"queryMethod" validate:"required|in:GET,POST"`
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"required|min:1"`
}

type PagerConfig struct {
	PageSize int `yaml:"pageSize" mapstructure:"pageSize" validate:"required|min:1"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" mapstructure:"addr"`
	Password string `yaml:"password" mapstructure:"password"`
	DB       int    `yaml:"db" mapstructure:"db"`
}

type SessionConfig struct {
	Driver       string        `yaml:"driver" mapstructure:"driver" validate:"required|in:memory,redis"`
	CookieName   string        `yaml:"cookieName" mapstructure:"cookieName" validate:"required"`
	FilePath     string        `yaml:"filePath" mapstructure:"filePath"`
	SaveInterval time.Duration `yaml:"saveInterval" mapstructure:"saveInterval"`
	TTL          time.Duration `yaml:"ttl" mapstructure:"ttl" validate:"required|min:1"`
	Redis        RedisConfig   `yaml:"redis" mapstructure:"redis"`
}

type CacheConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	Size    int  `yaml:"size" mapstructure:"size"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
}

type TracingConfig struct {
	Enabled     bool   `yaml:"enabled" mapstructure:"enabled"`
	Endpoint    string `yaml:"endpoint" mapstructure:"endpoint"`
	ServiceName string `yaml:"serviceName" mapstructure:"serviceName"`
}

type StorageConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Endpoint  string        `yaml:"endpoint" mapstructure:"endpoint"`
	AccessKey string        `yaml:"accessKey" mapstructure:"accessKey"`
	SecretKey string        `yaml:"secretKey" mapstructure:"secretKey"`
	Bucket    string        `yaml:"bucket" mapstructure:"bucket"`
	Region    string        `yaml:"region" mapstructure:"region"`
	UseSSL    bool          `yaml:"useSSL" mapstructure:"useSSL"`
	LinkTTL   time.Duration `yaml:"linkTTL" mapstructure:"linkTTL"`
}

type Config struct {
	AppName   string
	Debug     bool
	Path      string
	WebServer Server        `yaml:"webServer" mapstructure:"webServer"`
	Logger    LoggerConfig  `yaml:"logger" mapstructure:"logger"`
	Backend   BackendConfig `yaml:"backend" mapstructure:"backend"`
	Pager     PagerConfig   `yaml:"pager" mapstructure:"pager"`
	Session   SessionConfig `yaml:"session" mapstructure:"session"`
	Cache     CacheConfig   `yaml:"cache" mapstructure:"cache"`
	Metrics   MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
	Tracing   TracingConfig `yaml:"tracing" mapstructure:"tracing"`
	Storage   StorageConfig `yaml:"storage" mapstructure:"storage"`
}
