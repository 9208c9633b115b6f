package config

import (
	"os"
	"sync"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/mogaika/transform_tree/tree"
)

type DemoConfig struct {
	Enabled  bool    `yaml:"enabled"`
	RateHz   float64 `yaml:"rate_hz"`
	Children int     `yaml:"children"`
}

type Config struct {
	ListenAddr string `yaml:"listen_addr"`
	// FixedFrame pins the time-bridging frame for queries that do not
	// pass one. Empty selects the most-samples policy instead.
	FixedFrame            string     `yaml:"fixed_frame"`
	MaxExtrapolationNanos int64      `yaml:"max_extrapolation_ns"`
	Demo                  DemoConfig `yaml:"demo"`
}

func Default() Config {
	return Config{
		ListenAddr:            ":8000",
		MaxExtrapolationNanos: 100 * 1000 * 1000, // 100ms
		Demo: DemoConfig{
			RateHz:   30,
			Children: 3,
		},
	}
}

var (
	mu      sync.RWMutex
	current = Default()
)

func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

func Set(c Config) {
	mu.Lock()
	defer mu.Unlock()
	current = c
}

func SetFixedFrame(name string) {
	mu.Lock()
	defer mu.Unlock()
	current.FixedFrame = name
}

func SetMaxExtrapolationNanos(n int64) {
	mu.Lock()
	defer mu.Unlock()
	current.MaxExtrapolationNanos = n
}

// Load merges a yaml file over the defaults and installs the result.
func Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "Failed to read config %q", path)
	}
	c := Default()
	if err := yaml.Unmarshal(data, &c); err != nil {
		return errors.Wrapf(err, "Failed to parse config %q", path)
	}
	Set(c)
	return nil
}

// FixedFramePolicy returns the configured time-bridging policy: the
// pinned frame when one is set, the root above the busiest frame
// otherwise.
func FixedFramePolicy() tree.FixedFramePolicy {
	if name := Current().FixedFrame; name != "" {
		return tree.PinnedFrame(name)
	}
	return tree.MostSamples{}
}
