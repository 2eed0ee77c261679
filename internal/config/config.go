package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	SupportedSchema = "v1"
	// DefaultFile is read from the working directory when no path is given.
	DefaultFile = "ntv2.yml"
	envPrefix   = "NTV2__"
)

var ErrSchema = errors.New("unsupported schema_version")

type Checksum struct {
	File   string `koanf:"file"`
	SHA256 string `koanf:"sha256"`
}

type DownloadCfg struct {
	Timeout time.Duration `koanf:"timeout"`
	// Checksums is a list rather than a map: grid file names contain the
	// key delimiter.
	Checksums []Checksum `koanf:"checksums"`
}

type ServeCfg struct {
	GRPCPort    int      `koanf:"grpc_port"`
	MetricsPort int      `koanf:"metrics_port"`
	Queue       string   `koanf:"queue"`        // Kafka source YAML; empty disables the worker
	QueueDriver string   `koanf:"queue_driver"` // default sarama
	Sinks       []string `koanf:"sinks"`
	KafkaSink   string   `koanf:"kafka_sink"` // Kafka sink YAML
}

type LogCfg struct {
	Level string `koanf:"level"`
	JSON  bool   `koanf:"json"`
}

type Config struct {
	SchemaVersion string            `koanf:"schema_version"`
	GridsDir      string            `koanf:"grids_dir"`
	Programs      map[string]string `koanf:"programs"`
	// ProgramEnv holds KEY=VALUE pairs added to every GDAL process.
	ProgramEnv []string    `koanf:"program_env"`
	Download   DownloadCfg `koanf:"download"`
	Serve      ServeCfg    `koanf:"serve"`
	Log        LogCfg      `koanf:"log"`

	// Path is the file the configuration was read from, if any.
	Path string `koanf:"-"`
}

// Checksums returns the pinned digests keyed by grid file name.
func (c Config) Checksums() map[string]string {
	if len(c.Download.Checksums) == 0 {
		return nil
	}
	out := make(map[string]string, len(c.Download.Checksums))
	for _, s := range c.Download.Checksums {
		out[s.File] = strings.ToLower(s.SHA256)
	}
	return out
}

// Load merges the YAML file at path (DefaultFile when path is empty and the
// file exists) with NTV2__SECTION__KEY environment variables.
func Load(path string) (Config, error) {
	k := koanf.New(".")
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	var cfg Config
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("config %s: %w", path, err)
		}
		path = ""
	}

	if sv := k.String("schema_version"); sv != "" && sv != SupportedSchema {
		return cfg, fmt.Errorf("config schema_version %q (want %q): %w", sv, SupportedSchema, ErrSchema)
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return cfg, fmt.Errorf("config env: %w", err)
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if path != "" {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}
	cfg.Path = path
	if err := applyDefaults(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// envKey maps NTV2__SERVE__GRPC_PORT to serve.grpc_port.
func envKey(s string) string {
	s = strings.TrimPrefix(s, envPrefix)
	return strings.ReplaceAll(strings.ToLower(s), "__", ".")
}

/*──────── defaults ───────*/

func applyDefaults(c *Config) error {
	if c.SchemaVersion == "" {
		c.SchemaVersion = SupportedSchema
	}
	if c.GridsDir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return fmt.Errorf("config: no grids_dir and no user cache dir: %w", err)
		}
		c.GridsDir = filepath.Join(base, "ntv2", "grids")
	}
	c.GridsDir = c.resolve(c.GridsDir)
	if c.Download.Timeout == 0 {
		c.Download.Timeout = 10 * time.Minute
	}
	if c.Serve.GRPCPort == 0 {
		c.Serve.GRPCPort = 7070
	}
	if c.Serve.MetricsPort == 0 {
		c.Serve.MetricsPort = 9100
	}
	if c.Serve.QueueDriver == "" {
		c.Serve.QueueDriver = "sarama"
	}
	if len(c.Serve.Sinks) == 0 {
		c.Serve.Sinks = []string{"stdout"}
	}
	if c.Serve.Queue != "" {
		c.Serve.Queue = c.resolve(c.Serve.Queue)
	}
	if c.Serve.KafkaSink != "" {
		c.Serve.KafkaSink = c.resolve(c.Serve.KafkaSink)
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	return nil
}

// resolve makes p relative to the configuration file's directory.
func (c *Config) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || c.Path == "" {
		return p
	}
	return filepath.Join(filepath.Dir(c.Path), p)
}
