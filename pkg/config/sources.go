package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Source is one configuration layer. Lower priority loads first; later
// layers override earlier ones.
type Source interface {
	Name() string
	Priority() int
	Load(k *koanf.Koanf) error
}

// DefaultSources returns the standard source chain: defaults, optional YAML
// file, environment, flags.
func DefaultSources(configFilePath string, flags *pflag.FlagSet) []Source {
	sources := []Source{
		&defaultsSource{},
		&envSource{},
	}
	if configFilePath != "" {
		sources = append(sources, &fileSource{path: configFilePath})
	}
	if flags != nil {
		sources = append(sources, &flagSource{flags: flags})
	}
	return sources
}

type defaultsSource struct{}

func (s *defaultsSource) Name() string  { return "defaults" }
func (s *defaultsSource) Priority() int { return 0 }

func (s *defaultsSource) Load(k *koanf.Koanf) error {
	return k.Load(confmap.Provider(DefaultConfigAsMap(), "."), nil)
}

type fileSource struct {
	path string
}

func (s *fileSource) Name() string  { return fmt.Sprintf("file %s", s.path) }
func (s *fileSource) Priority() int { return 10 }

func (s *fileSource) Load(k *koanf.Koanf) error {
	if _, err := os.Stat(s.path); err != nil {
		return fmt.Errorf("config file: %w", err)
	}
	return k.Load(file.Provider(s.path), yaml.Parser())
}

type envSource struct{}

func (s *envSource) Name() string  { return "environment" }
func (s *envSource) Priority() int { return 20 }

// Load maps GVMRUN_-prefixed variables onto config keys. The first
// underscore separates the section; the rest of the key keeps its
// underscores: GVMRUN_POLL_INTERVAL -> poll.interval,
// GVMRUN_DAEMON_SU_USER -> daemon.su_user.
func (s *envSource) Load(k *koanf.Koanf) error {
	return k.Load(env.Provider("GVMRUN_", ".", func(key string) string {
		key = strings.ToLower(strings.TrimPrefix(key, "GVMRUN_"))
		parts := strings.SplitN(key, "_", 2)
		if len(parts) == 1 {
			return parts[0]
		}
		return parts[0] + "." + parts[1]
	}), nil)
}

type flagSource struct {
	flags *pflag.FlagSet
}

func (s *flagSource) Name() string  { return "flags" }
func (s *flagSource) Priority() int { return 30 }

func (s *flagSource) Load(k *koanf.Koanf) error {
	return k.Load(posflag.Provider(s.flags, ".", k), nil)
}
