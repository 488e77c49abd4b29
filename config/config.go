package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml"
)

const (
	DefaultListen       = ":7001"
	DefaultAuthScheme   = "stellar"
	DefaultClockSkew    = 300
	DefaultLogLevel     = 2
	DefaultGCInterval   = 300
	DefaultReadTimeout  = 10
	DefaultWriteTimeout = 10
)

type Configuration struct {
	HTTP struct {
		Listen       string `toml:"listen"`
		ReadTimeout  int    `toml:"read-timeout"`
		WriteTimeout int    `toml:"write-timeout"`
	} `toml:"http"`
	Auth struct {
		Scheme       string `toml:"scheme"`
		MaxClockSkew int    `toml:"max-clock-skew"`
	} `toml:"auth"`
	Log struct {
		Level int `toml:"level"`
	} `toml:"log"`
	Store struct {
		GCInterval int `toml:"gc-interval"`
	} `toml:"store"`
}

func Setup(path string) (*Configuration, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(f)
}

func Parse(data []byte) (*Configuration, error) {
	tree, err := toml.LoadBytes(data)
	if err != nil {
		return nil, err
	}
	var conf Configuration
	err = tree.Unmarshal(&conf)
	if err != nil {
		return nil, err
	}
	conf.applyDefaults(tree)
	return &conf, conf.validate()
}

// applyDefaults fills only the keys absent from the file, an explicit zero
// is kept.
func (c *Configuration) applyDefaults(tree *toml.Tree) {
	if !tree.Has("http.listen") {
		c.HTTP.Listen = DefaultListen
	}
	if !tree.Has("http.read-timeout") {
		c.HTTP.ReadTimeout = DefaultReadTimeout
	}
	if !tree.Has("http.write-timeout") {
		c.HTTP.WriteTimeout = DefaultWriteTimeout
	}
	if !tree.Has("auth.scheme") {
		c.Auth.Scheme = DefaultAuthScheme
	}
	if !tree.Has("auth.max-clock-skew") {
		c.Auth.MaxClockSkew = DefaultClockSkew
	}
	if !tree.Has("log.level") {
		c.Log.Level = DefaultLogLevel
	}
	if !tree.Has("store.gc-interval") {
		c.Store.GCInterval = DefaultGCInterval
	}
}

func (c *Configuration) validate() error {
	switch c.Auth.Scheme {
	case "stellar", "mixin":
	default:
		return fmt.Errorf("invalid auth scheme %s", c.Auth.Scheme)
	}
	if c.HTTP.Listen == "" {
		return fmt.Errorf("empty http listen address")
	}
	if c.HTTP.ReadTimeout < 0 || c.HTTP.WriteTimeout < 0 {
		return fmt.Errorf("invalid http timeouts %d %d", c.HTTP.ReadTimeout, c.HTTP.WriteTimeout)
	}
	if c.Auth.MaxClockSkew < 0 {
		return fmt.Errorf("invalid max clock skew %d", c.Auth.MaxClockSkew)
	}
	if c.Store.GCInterval < 0 {
		return fmt.Errorf("invalid gc interval %d", c.Store.GCInterval)
	}
	return nil
}

func (c *Configuration) ClockSkew() time.Duration {
	return time.Duration(c.Auth.MaxClockSkew) * time.Second
}

func (c *Configuration) GCInterval() time.Duration {
	return time.Duration(c.Store.GCInterval) * time.Second
}

func (c *Configuration) ReadTimeout() time.Duration {
	return time.Duration(c.HTTP.ReadTimeout) * time.Second
}

func (c *Configuration) WriteTimeout() time.Duration {
	return time.Duration(c.HTTP.WriteTimeout) * time.Second
}
