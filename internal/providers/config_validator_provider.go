package providers

import (
	"errors"
	"fmt"

	"fbconsole/internal/structures"

	"github.com/gookit/validate"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (c *CnfValidator) Validate() error {
	v := validate.Struct(c.conf)
	if !v.Validate() {
		return fmt.Errorf("invalid config: %s", v.Errors.Error())
	}

	if c.conf.Session.Driver == "redis" && c.conf.Session.Redis.Addr == "" {
		return errors.New("invalid config: session.redis.addr is required for the redis driver")
	}
	if c.conf.Storage.Enabled && (c.conf.Storage.Endpoint == "" || c.conf.Storage.Bucket == "") {
		return errors.New("invalid config: storage.endpoint and storage.bucket are required when storage is enabled")
	}
	if c.conf.Tracing.Enabled && c.conf.Tracing.Endpoint == "" {
		return errors.New("invalid config: tracing.endpoint is required when tracing is enabled")
	}
	return nil
}
