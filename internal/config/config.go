// Package config parses sadhana.toml.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/julianstephens/sadhana/internal/constants"
	"github.com/julianstephens/sadhana/internal/utils"
)

// Storage backends.
const (
	BackendJSON     = "json"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMemory   = "memory"
)

var backends = []string{BackendJSON, BackendSQLite, BackendPostgres, BackendRedis, BackendMemory}

// Config is the top-level sadhana.toml configuration.
type Config struct {
	Storage  StorageConfig  `toml:"storage"`
	Log      LogConfig      `toml:"log"`
	Insights InsightsConfig `toml:"insights"`
	Backup   BackupConfig   `toml:"backup"`
	Server   ServerConfig   `toml:"server"`
}

// StorageConfig selects and locates the persistence backend.
type StorageConfig struct {
	Backend string `toml:"backend"`
	DataDir string `toml:"data_dir"`
	// Path is the collection directory (json) or database file (sqlite).
	// Empty means a default under DataDir.
	Path      string `toml:"path"`
	DSN       string `toml:"dsn"`
	RedisAddr string `toml:"redis_addr"`
	RedisDB   int    `toml:"redis_db"`
}

// LogConfig controls the log file.
type LogConfig struct {
	Debug bool   `toml:"debug"`
	Dir   string `toml:"dir"`
	Level string `toml:"level"`
}

// InsightsConfig controls the analytics reference clock and tallies.
type InsightsConfig struct {
	// Timezone decides what "today" is and which offset CLI-written
	// timestamps carry.
	Timezone string `toml:"timezone"`
	TopN     int    `toml:"top_n"`
}

// BackupConfig controls backup files.
type BackupConfig struct {
	Dir        string `toml:"dir"`
	MaxBackups int    `toml:"max_backups"`
}

// ServerConfig controls `sadhana serve`.
type ServerConfig struct {
	Addr           string   `toml:"addr"`
	AllowedOrigins []string `toml:"allowed_origins"`
}

// Defaults returns a Config that works with no file present.
func Defaults() Config {
	return Config{
		Storage: StorageConfig{
			Backend:   BackendJSON,
			DataDir:   constants.DefaultDataDir,
			RedisAddr: "localhost:6379",
		},
		Insights: InsightsConfig{
			Timezone: "UTC",
			TopN:     constants.DefaultTopN,
		},
		Backup: BackupConfig{
			MaxBackups: constants.MaxBackups,
		},
		Server: ServerConfig{
			Addr: constants.DefaultServerAddr,
		},
	}
}

// Validate returns every problem found, joined.
func (c *Config) Validate() error {
	var errs []error

	if !isBackend(c.Storage.Backend) {
		errs = append(errs, fmt.Errorf("storage.backend must be one of %s", strings.Join(backends, ", ")))
	}
	if c.Storage.DataDir == "" {
		errs = append(errs, fmt.Errorf("storage.data_dir must not be empty"))
	}
	if c.Storage.Backend == BackendRedis && c.Storage.RedisAddr == "" {
		errs = append(errs, fmt.Errorf("storage.redis_addr must be set for the redis backend"))
	}
	if c.Storage.RedisDB < 0 {
		errs = append(errs, fmt.Errorf("storage.redis_db must be >= 0"))
	}
	if c.Storage.DSN != "" {
		if u, err := url.Parse(c.Storage.DSN); err == nil && u.User != nil {
			if _, ok := u.User.Password(); ok {
				errs = append(errs, fmt.Errorf("storage.dsn must not embed a password; use the keyring or %s", constants.EnvDBConnection))
			}
		}
	}

	if c.Log.Level != "" {
		if _, err := log.ParseLevel(c.Log.Level); err != nil {
			errs = append(errs, fmt.Errorf("log.level %q is not a known level", c.Log.Level))
		}
	}

	if !utils.ValidateTimezone(c.Insights.Timezone) {
		errs = append(errs, fmt.Errorf("insights.timezone %q is not a valid IANA zone or \"Local\"", c.Insights.Timezone))
	}
	if c.Insights.TopN < 0 {
		errs = append(errs, fmt.Errorf("insights.top_n must be >= 0 (0 = no limit)"))
	}

	if c.Backup.MaxBackups < 1 {
		errs = append(errs, fmt.Errorf("backup.max_backups must be >= 1"))
	}

	if c.Server.Addr == "" {
		errs = append(errs, fmt.Errorf("server.addr must not be empty"))
	}
	for _, origin := range c.Server.AllowedOrigins {
		if origin == "*" {
			continue
		}
		u, err := url.ParseRequestURI(origin)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			errs = append(errs, fmt.Errorf("server.allowed_origins: %q must be an http(s) origin or \"*\"", origin))
		}
	}

	return errors.Join(errs...)
}

func isBackend(name string) bool {
	for _, b := range backends {
		if b == name {
			return true
		}
	}
	return false
}

// DataDir returns storage.data_dir with "~" expanded.
func (c *Config) DataDir() (string, error) {
	return utils.ExpandHome(c.Storage.DataDir)
}

// StoragePath returns the location of the json directory or sqlite file.
func (c *Config) StoragePath() (string, error) {
	if c.Storage.Path != "" {
		return utils.ExpandHome(c.Storage.Path)
	}
	dataDir, err := c.DataDir()
	if err != nil {
		return "", err
	}
	if c.Storage.Backend == BackendSQLite {
		return filepath.Join(dataDir, constants.AppName+".db"), nil
	}
	return filepath.Join(dataDir, "collections"), nil
}

// BackupDir returns backup.dir, defaulting to <data_dir>/backups.
func (c *Config) BackupDir() (string, error) {
	return c.dirOrDefault(c.Backup.Dir, constants.BackupDirName)
}

// LogDir returns the base directory the logger writes under.
func (c *Config) LogDir() (string, error) {
	return c.dirOrDefault(c.Log.Dir, "")
}

func (c *Config) dirOrDefault(dir, sub string) (string, error) {
	if dir != "" {
		return utils.ExpandHome(dir)
	}
	dataDir, err := c.DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, sub), nil
}

// ResolvePath picks the config file: the explicit path, then $SADHANA_CONFIG,
// then the default location.
func ResolvePath(path string) (string, error) {
	if path == "" {
		path = os.Getenv(constants.EnvConfigPath)
	}
	if path == "" {
		path = constants.DefaultConfigPath
	}
	return utils.ExpandHome(path)
}

// Load reads the config file at path (see ResolvePath). A missing file yields
// defaults. Unknown keys are an error since they are almost always typos.
func Load(path string) (*Config, error) {
	resolved, err := ResolvePath(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve path: %w", err)
	}

	cfg := Defaults()
	meta, err := toml.DecodeFile(resolved, &cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return &cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", resolved, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("config: unknown keys in %s: %s (possible typos?)", resolved, strings.Join(keys, ", "))
	}

	return &cfg, nil
}

const template = `# sadhana.toml

[storage]
backend = "json"                     # json | sqlite | postgres | redis | memory
data_dir = "~/.local/share/sadhana"
path = ""                            # json directory or sqlite file; empty = under data_dir
dsn = ""                             # postgres only; never include a password here
redis_addr = "localhost:6379"
redis_db = 0

[log]
debug = false
dir = ""      # empty = data_dir
level = ""    # debug | info | warn | error

[insights]
# Zone for "today" in streaks and for timestamps the CLI writes.
timezone = "UTC"  # IANA name or "Local"
top_n = 5

[backup]
dir = ""          # empty = <data_dir>/backups
max_backups = 14

[server]
addr = "127.0.0.1:8787"
allowed_origins = []
`

// InitFile writes the default template to path, creating parent
// directories. It refuses to overwrite an existing file.
func InitFile(path string) (string, error) {
	resolved, err := ResolvePath(path)
	if err != nil {
		return "", fmt.Errorf("config: resolve path: %w", err)
	}
	if _, err := os.Stat(resolved); err == nil {
		return "", fmt.Errorf("config: %s already exists", resolved)
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0755); err != nil {
		return "", fmt.Errorf("config: create directory: %w", err)
	}
	if err := os.WriteFile(resolved, []byte(template), 0644); err != nil {
		return "", fmt.Errorf("config: write %s: %w", resolved, err)
	}
	return resolved, nil
}
