package am

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/teranos/clwm/errors"
)

// EnvPrefix prefixes every environment override, e.g. CLWM_WORLD_FILE.
const EnvPrefix = "CLWM"

// ProjectFile is the per-project configuration file name, looked up from the
// working directory towards the filesystem root.
const ProjectFile = "am.toml"

// Process-wide state. Reset clears it between test runs.
var (
	cached  *Config
	shared  *viper.Viper
	sources []string
)

// Load returns the configuration assembled from defaults, ~/.clwm/am.toml, the
// nearest project am.toml and CLWM_* environment variables, in rising
// precedence. The result is cached for the life of the process.
func Load() (*Config, error) {
	if cached != nil {
		return cached, nil
	}
	cfg, err := LoadWithViper(GetViper())
	if err != nil {
		return nil, err
	}
	cached = cfg
	return cfg, nil
}

// GetViper returns the shared Viper instance, building it on first use.
func GetViper() *viper.Viper {
	if shared != nil {
		return shared
	}
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	sources = mergeConfigFiles(v, candidatePaths())
	shared = v
	return v
}

// Sources lists the configuration files merged into the shared instance.
func Sources() []string {
	GetViper()
	return append([]string(nil), sources...)
}

// LoadWithViper decodes and validates the configuration held by v.
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode configuration")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromFile reads a single TOML file over the defaults. The environment is
// not consulted.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	cfg, err := LoadWithViper(v)
	return cfg, errors.Wrapf(err, "config file %s", path)
}

// Reset forgets the cached configuration and Viper instance.
func Reset() {
	cached, shared, sources = nil, nil, nil
}

// GetString reads one key from the shared instance using dot notation.
func GetString(key string) string {
	return GetViper().GetString(key)
}

// UserConfigPath returns ~/.clwm/am.toml, or "" without a home directory.
func UserConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".clwm", ProjectFile)
}

func candidatePaths() []string {
	var paths []string
	if p := UserConfigPath(); p != "" {
		paths = append(paths, p)
	}
	if wd, err := os.Getwd(); err == nil {
		if p := findProjectConfig(wd); p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

// findProjectConfig walks up from dir and returns the first am.toml found.
func findProjectConfig(dir string) string {
	for {
		candidate := filepath.Join(dir, ProjectFile)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// mergeConfigFiles layers each readable file over the previous ones and returns
// the files it merged. Missing or malformed files are skipped.
func mergeConfigFiles(v *viper.Viper, paths []string) []string {
	var merged []string
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		file := viper.New()
		file.SetConfigFile(path)
		file.SetConfigType("toml")
		if err := file.ReadInConfig(); err != nil {
			continue
		}
		if err := v.MergeConfigMap(file.AllSettings()); err == nil {
			merged = append(merged, path)
		}
	}
	return merged
}
