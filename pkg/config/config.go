// Package config loads layered application configuration: defaults, then an
// optional YAML file, then GVMRUN_-prefixed environment variables, then
// command-line flags.
package config

import (
	"fmt"
	"sort"
	"sync"

	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Global koanf instance, initialized once at startup.
var (
	k    *koanf.Koanf
	once sync.Once
)

// InitGlobalConfig initializes the global koanf instance. Called early in
// the application lifecycle, before Load.
func InitGlobalConfig() {
	once.Do(func() {
		k = koanf.New(".")
	})
}

// Manager handles loading and accessing application configuration.
type Manager struct {
	koanfInstance *koanf.Koanf
	currentConfig Config
	mu            sync.RWMutex
}

// NewManager creates a Manager over the global koanf instance.
func NewManager() *Manager {
	InitGlobalConfig()
	return &Manager{koanfInstance: k}
}

// Load merges configuration from all sources in precedence order
// (highest to lowest):
//
//  1. Command-line flags (--poll.interval=5s)
//  2. Environment variables (GVMRUN_POLL_INTERVAL=5s)
//  3. Config file (YAML)
//  4. Default values
func (m *Manager) Load(flags *pflag.FlagSet, configFilePath string) error {
	return m.LoadWithSources(DefaultSources(configFilePath, flags))
}

// LoadWithSources merges the given sources, lowest priority first, and
// unmarshals the result. Custom source chains are used by tests.
func (m *Manager) LoadWithSources(sources []Source) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sort.Slice(sources, func(i, j int) bool {
		return sources[i].Priority() < sources[j].Priority()
	})

	for _, src := range sources {
		if err := src.Load(m.koanfInstance); err != nil {
			return fmt.Errorf("load config from %s: %w", src.Name(), err)
		}
	}

	var cfg Config
	if err := m.koanfInstance.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return fmt.Errorf("unmarshal merged config: %w", err)
	}
	m.currentConfig = cfg
	return nil
}

// Get returns a copy of the current configuration.
func (m *Manager) Get() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentConfig
}

// GetValue retrieves a raw configuration value by key path, or nil.
func (m *Manager) GetValue(key string) any {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.koanfInstance.Get(key)
}
