package providers

import (
	"fmt"
	"path/filepath"
	"strings"

	"fbconsole/internal/structures"

	"github.com/spf13/viper"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	v.SetDefault("backend.queryMethod", "POST")
	v.SetDefault("backend.timeout", "10s")
	v.SetDefault("pager.pageSize", 10)
	v.SetDefault("session.driver", "memory")
	v.SetDefault("session.cookieName", "fbc_session")
	v.SetDefault("session.ttl", "24h")
	v.SetDefault("session.saveInterval", "30s")
	v.SetDefault("storage.linkTTL", "1h")
	v.SetDefault("tracing.serviceName", "fbconsole")

	v.BindEnv("logger.level", "FBC_LOG_LEVEL")
	v.BindEnv("backend.baseUrl", "FBC_BACKEND_URL")
	v.BindEnv("backend.queryMethod", "FBC_BACKEND_METHOD")
	v.BindEnv("pager.pageSize", "FBC_PAGE_SIZE")
	v.BindEnv("cache.enabled", "FBC_CACHE_ENABLED")
	v.BindEnv("session.driver", "FBC_SESSION_DRIVER")

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}
	conf.Backend.QueryMethod = strings.ToUpper(conf.Backend.QueryMethod)
	conf.Backend.BaseURL = strings.TrimRight(conf.Backend.BaseURL, "/")

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "FeedbackConsole"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
