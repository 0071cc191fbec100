package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/pkg/errors"
)

const envPrefix = "NAMEDIR_"

type Configuration struct {
	Corpus   CorpusConfig   `koanf:"corpus"`
	Server   ServerConfig   `koanf:"server"`
	Defaults DefaultsConfig `koanf:"defaults"`
}

type CorpusConfig struct {
	// Path is a filesystem path or an http(s) URL. .gz and .zst suffixes are decompressed.
	Path          string           `koanf:"path"`
	VerifySorted  bool             `koanf:"verify_sorted"`
	ProgressEvery int              `koanf:"progress_every"`
	Filters       []string         `koanf:"filters"`
	HTTP          CorpusHTTPConfig `koanf:"http"`
}

type CorpusHTTPConfig struct {
	Timeout       time.Duration `koanf:"timeout"`
	RatePerSecond int           `koanf:"rate_per_second"`
	// Query is appended to remote corpus URLs, e.g. an access token.
	Query map[string]string `koanf:"query"`
}

type ServerConfig struct {
	Bind              string        `koanf:"bind"`
	ListenDuringLoad  bool          `koanf:"listen_during_load"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"`
}

type DefaultsConfig struct {
	PageLimit   int `koanf:"page_limit"`
	SearchLimit int `koanf:"search_limit"`
}

var (
	Config *Configuration
	K      = koanf.New(".")
)

var defaults = map[string]interface{}{
	"corpus.path":                 "usernames.txt",
	"corpus.verify_sorted":        false,
	"corpus.progress_every":       100000,
	"corpus.http.timeout":         "60s",
	"corpus.http.rate_per_second": 1,
	"server.bind":                 "127.0.0.1:3000",
	"server.listen_during_load":   false,
	"server.read_header_timeout":  "10s",
	"server.shutdown_timeout":     "5s",
	"defaults.page_limit":         50,
	"defaults.search_limit":       100,
}

// Init loads defaults, then the yaml file at configFilePath (if present), then NAMEDIR_ env overrides.
func Init(configFilePath string) error {
	k := koanf.New(".")
	cfg, err := Load(k, configFilePath)
	if err != nil {
		return err
	}

	K = k
	Config = cfg
	return nil
}

func Load(k *koanf.Koanf, configFilePath string) (*Configuration, error) {
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, errors.Wrap(err, "load defaults")
	}

	if configFilePath != "" {
		if _, err := os.Stat(configFilePath); err == nil {
			if err := k.Load(file.Provider(configFilePath), yaml.Parser()); err != nil {
				return nil, errors.Wrapf(err, "load config file %q", configFilePath)
			}
		} else if !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "stat config file %q", configFilePath)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, "load environment")
	}

	cfg := &Configuration{}
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}

	return cfg, nil
}

// envKey maps NAMEDIR_SERVER__BIND to server.bind.
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".")
}

func GetDefaultConfigDirectory(app string, filename string) string {
	// config file in the working directory takes precedence
	if _, err := os.Stat(filename); err == nil {
		return "."
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}

	return filepath.Join(dir, app)
}
