// SPDX-License-Identifier: GPL-3.0-or-later

package agent

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v2"

	"github.com/netdata/netdata/go/mysqlstats/cache"
	"github.com/netdata/netdata/go/mysqlstats/collector/mysql"
	"github.com/netdata/netdata/go/mysqlstats/pkg/bigcount"
	"github.com/netdata/netdata/go/mysqlstats/pkg/confopt"
)

const (
	LockModeServer = "server"
	LockModeFile   = "file"

	// server side lock names are limited to 64 characters
	maxLockNameLen = 64
)

type (
	Config struct {
		Host         string           `yaml:"host"`
		Port         int              `yaml:"port"`
		Socket       string           `yaml:"socket"`
		User         string           `yaml:"user"`
		Pass         string           `yaml:"pass"`
		MyCNF        string           `yaml:"my.cnf"`
		Heartbeat    string           `yaml:"heartbeat"`
		CacheDir     string           `yaml:"cache_dir"`
		NoCache      bool             `yaml:"nocache"`
		PollInterval confopt.Duration `yaml:"poll_interval"`
		Timeout      confopt.Duration `yaml:"timeout"`
		Checks       mysql.Checks     `yaml:"checks"`
		Lock         LockConfig       `yaml:"lock"`
		Arithmetic   string           `yaml:"arithmetic"`
		LogFile      string           `yaml:"log_file"`
		LogLevel     string           `yaml:"log_level"`
		Debug        bool             `yaml:"debug"`

		// Items are the output codes to print, set from the command line.
		Items []string `yaml:"-"`
	}
	LockConfig struct {
		Mode    string `yaml:"mode"`
		Name    string `yaml:"name"`
		PerHost bool   `yaml:"per_host"`
	}
)

func DefaultConfig() Config {
	return Config{
		Port:         3306,
		User:         "cactiuser",
		Pass:         "cactiuser",
		CacheDir:     "/tmp",
		PollInterval: confopt.Duration(5 * time.Minute),
		Timeout:      confopt.Duration(5 * time.Second),
		Checks: mysql.Checks{
			InnoDB: true,
			Master: true,
			Slave:  true,
			Procs:  true,
		},
		Lock: LockConfig{
			Mode: LockModeServer,
			Name: cache.DefaultLockName,
		},
		Arithmetic: bigcount.TierArbitrary.String(),
		LogLevel:   "info",
	}
}

// LoadConfig reads a YAML file over the defaults and then applies the
// [client] section of my.cnf if one is configured. An empty path yields the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		path, err := homedir.Expand(path)
		if err != nil {
			return cfg, err
		}
		bs, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("error on reading config file: %v", err)
		}
		if err := yaml.UnmarshalStrict(bs, &cfg); err != nil {
			return cfg, fmt.Errorf("error on parsing config file '%s': %v", path, err)
		}
	}

	if err := cfg.expandPaths(); err != nil {
		return cfg, err
	}

	if cfg.MyCNF != "" {
		client, err := readMyCNF(cfg.MyCNF)
		if err != nil {
			return cfg, err
		}
		client.applyTo(&cfg)
	}

	return cfg, nil
}

func (c *Config) expandPaths() error {
	for _, p := range []*string{&c.CacheDir, &c.MyCNF, &c.LogFile} {
		if *p == "" {
			continue
		}
		v, err := homedir.Expand(*p)
		if err != nil {
			return fmt.Errorf("error on expanding path '%s': %v", *p, err)
		}
		*p = v
	}
	return nil
}

func (c Config) Validate() error {
	if c.Host == "" {
		return errors.New("config: host not set")
	}
	if len(c.Items) == 0 {
		return errors.New("config: no items requested")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: invalid port %d", c.Port)
	}
	if c.Timeout.Duration() < 0 {
		return errors.New("config: negative timeout")
	}
	if _, err := bigcount.ParseTier(c.Arithmetic); err != nil {
		return fmt.Errorf("config: %v", err)
	}
	if c.NoCache {
		return nil
	}

	if c.CacheDir == "" {
		return errors.New("config: cache_dir not set")
	}
	if c.PollInterval.Duration() <= 0 {
		return errors.New("config: poll_interval must be positive")
	}
	switch c.Lock.Mode {
	case LockModeServer, LockModeFile:
	default:
		return fmt.Errorf("config: unknown lock mode '%s' (expected '%s' or '%s')", c.Lock.Mode, LockModeServer, LockModeFile)
	}
	if c.Lock.Name == "" || strings.ContainsAny(c.Lock.Name, `/\`) {
		return fmt.Errorf("config: invalid lock name '%s'", c.Lock.Name)
	}
	if name := cache.LockName(c.Lock.Name, c.Host, c.Lock.PerHost); len(name) > maxLockNameLen {
		return fmt.Errorf("config: lock name '%s' longer than %d characters", name, maxLockNameLen)
	}
	return nil
}
