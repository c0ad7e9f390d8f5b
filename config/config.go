// Package config loads icesales settings from a YAML file and ICESALES_*
// environment variables.
package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/YuminosukeSato/icesales/pkg/errors"
	"github.com/YuminosukeSato/icesales/pkg/log"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "ICESALES_"

// Config defines the structure for all application configuration.
type Config struct {
	Data   DataConf   `yaml:"data"`
	Model  ModelConf  `yaml:"model"`
	Output OutputConf `yaml:"output"`
	Server ServerConf `yaml:"server"`
	Log    LogConf    `yaml:"log"`
}

// DataConf locates the training data and how it is split.
type DataConf struct {
	Path     string  `yaml:"path"`
	TestSize float64 `yaml:"test_size"`
	Seed     uint64  `yaml:"seed"`
}

// ModelConf locates the persisted model. A .json extension selects the
// scikit-learn interchange format.
type ModelConf struct {
	Path string `yaml:"path"`
}

// OutputConf controls the artifacts written by a training run.
type OutputConf struct {
	Dir     string `yaml:"dir"`
	DemoMin int    `yaml:"demo_min"`
	DemoMax int    `yaml:"demo_max"`
	Plots   bool   `yaml:"plots"`
}

// ServerConf configures the HTTP adapter. Mode is a gin mode
// (debug, release, test).
type ServerConf struct {
	Addr string `yaml:"addr"`
	Mode string `yaml:"mode"`
}

// LogConf configures pkg/log.New.
type LogConf struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// Default returns the configuration used when no file overrides it.
func Default() *Config {
	return &Config{
		Data: DataConf{
			Path:     filepath.Join("inputs", "ice_cream_sales.csv"),
			TestSize: 0.2,
			Seed:     42,
		},
		Model: ModelConf{Path: filepath.Join("outputs", "model.gob")},
		Output: OutputConf{
			Dir:     "outputs",
			DemoMin: 20,
			DemoMax: 35,
			Plots:   true,
		},
		Server: ServerConf{Addr: ":8000", Mode: "release"},
		Log:    LogConf{Level: "info", Format: log.FormatJSON},
	}
}

// Load はYAMLファイルと環境変数から設定を読み込む
//
// path が空の場合はデフォルト値に環境変数だけを適用する。ファイルに書かれていない
// 項目はデフォルト値のまま残る。結果は Validate 済み。
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, errors.NewConfigError("config", "file not found", path)
			}
			return nil, errors.NewIOError("config.Load", path, err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, errors.NewConfigError("config", "invalid YAML: "+err.Error(), path)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			*dst = v
		}
	}
	str("DATA_PATH", &c.Data.Path)
	str("MODEL_PATH", &c.Model.Path)
	str("OUTPUT_DIR", &c.Output.Dir)
	str("ADDR", &c.Server.Addr)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)
	str("LOG_FILE", &c.Log.File)

	if v, ok := lookup(EnvPrefix + "SEED"); ok && v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return errors.NewConfigError(EnvPrefix+"SEED", "must be a non-negative integer", v)
		}
		c.Data.Seed = seed
	}
	if v, ok := lookup(EnvPrefix + "TEST_SIZE"); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errors.NewConfigError(EnvPrefix+"TEST_SIZE", "must be a number", v)
		}
		c.Data.TestSize = f
	}
	return nil
}

// Validate checks every field and returns the first ConfigError found.
func (c *Config) Validate() error {
	if c.Data.Path == "" {
		return errors.NewConfigError("data.path", "must not be empty", c.Data.Path)
	}
	if !(c.Data.TestSize > 0 && c.Data.TestSize < 1) {
		return errors.NewConfigError("data.test_size", "must be in (0, 1)", c.Data.TestSize)
	}
	if c.Model.Path == "" {
		return errors.NewConfigError("model.path", "must not be empty", c.Model.Path)
	}
	if c.Output.Dir == "" {
		return errors.NewConfigError("output.dir", "must not be empty", c.Output.Dir)
	}
	if c.Output.DemoMin > c.Output.DemoMax {
		return errors.NewConfigError("output.demo_min", "must not exceed output.demo_max", c.Output.DemoMin)
	}
	if c.Server.Addr == "" {
		return errors.NewConfigError("server.addr", "must not be empty", c.Server.Addr)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return errors.NewConfigError("server.mode", "must be debug, release or test", c.Server.Mode)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return errors.NewConfigError("log.level", "unknown level", c.Log.Level)
	}
	switch c.Log.Format {
	case log.FormatJSON, log.FormatConsole, log.FormatSlog:
	default:
		return errors.NewConfigError("log.format", "must be json, console or slog", c.Log.Format)
	}
	return nil
}
