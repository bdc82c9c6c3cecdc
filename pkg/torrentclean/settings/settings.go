package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"

	"github.com/jamesainslie/torrent-clean/pkg/torrentclean/logging"
	"github.com/jamesainslie/torrent-clean/pkg/torrentclean/types"
)

// RotationSettings configures log file rotation.
type RotationSettings struct {
	MaxSize    string `mapstructure:"max_size"`
	MaxAge     int    `mapstructure:"max_age"`
	MaxBackups int    `mapstructure:"max_backups"`
	Daily      bool   `mapstructure:"daily"`
}

// LoggingSettings configures application logging.
type LoggingSettings struct {
	Level      string            `mapstructure:"level"`
	Path       string            `mapstructure:"path"`
	Rotation   RotationSettings  `mapstructure:"rotation"`
	Components map[string]string `mapstructure:"components"`
}

// Settings are the user's torrent-clean preferences.
type Settings struct {
	Output  string          `mapstructure:"output"`
	Sort    string          `mapstructure:"sort"`
	Limit   int             `mapstructure:"limit"`
	MinSize string          `mapstructure:"min_size"`
	Timeout time.Duration   `mapstructure:"timeout"`
	Trash   bool            `mapstructure:"trash"`
	Logging LoggingSettings `mapstructure:"logging"`
}

// Dir returns $XDG_CONFIG_HOME/torrent-clean.
func Dir() string {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, logging.AppName)
	}
	return filepath.Join(xdg.ConfigHome, logging.AppName)
}

// Path returns the settings file path.
func Path() string {
	return filepath.Join(Dir(), FileName)
}

// New returns a viper instance with the settings search path, environment
// binding and defaults applied. Callers may bind flags to it before Load.
func New() *viper.Viper {
	v := viper.New()

	v.SetConfigName(strings.TrimSuffix(FileName, filepath.Ext(FileName)))
	v.SetConfigType("yaml")
	v.AddConfigPath(Dir())
	if homeDir, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(homeDir, ".config", logging.AppName))
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("output", DefaultOutput)
	v.SetDefault("sort", DefaultSort)
	v.SetDefault("limit", DefaultLimit)
	v.SetDefault("min_size", "")
	v.SetDefault("timeout", DefaultTimeout)
	v.SetDefault("trash", false)

	rot := logging.DefaultRotationConfig()
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.path", "")
	v.SetDefault("logging.rotation.max_size", types.FormatSize(rot.MaxSize))
	v.SetDefault("logging.rotation.max_age", rot.MaxAge)
	v.SetDefault("logging.rotation.max_backups", rot.MaxBackups)
	v.SetDefault("logging.rotation.daily", rot.Daily)
	v.SetDefault("logging.components", map[string]string{})

	return v
}

// Load reads the settings file into v, if one exists, and decodes the result.
// A missing file is not an error.
func Load(v *viper.Viper) (*Settings, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read settings file: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}

	return &s, nil
}

// LoggingConfig converts the logging settings into a logging.Config.
func (s *Settings) LoggingConfig() (logging.Config, error) {
	cfg := logging.Config{
		Level:      s.Logging.Level,
		Path:       s.Logging.Path,
		Components: s.Logging.Components,
		Rotation: logging.RotationConfig{
			MaxAge:     s.Logging.Rotation.MaxAge,
			MaxBackups: s.Logging.Rotation.MaxBackups,
			Daily:      s.Logging.Rotation.Daily,
		},
	}

	if cfg.Path != "" {
		path, err := ExpandPath(cfg.Path)
		if err != nil {
			return logging.Config{}, err
		}
		cfg.Path = path
	}

	if s.Logging.Rotation.MaxSize != "" {
		size, err := types.ParseSize(s.Logging.Rotation.MaxSize)
		if err != nil {
			return logging.Config{}, fmt.Errorf("logging.rotation.max_size: %w", err)
		}
		cfg.Rotation.MaxSize = size
	}

	return cfg, nil
}

// WriteDefault writes a commented default settings file. It returns the
// path and false when a file already exists.
func WriteDefault() (string, bool, error) {
	path := Path()

	if _, err := os.Stat(path); err == nil {
		return path, false, nil
	} else if !os.IsNotExist(err) {
		return "", false, fmt.Errorf("failed to check settings file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", false, fmt.Errorf("failed to create settings directory: %w", err)
	}

	rot := logging.DefaultRotationConfig()
	content := fmt.Sprintf(`# torrent-clean settings

# Output format: pretty, plain, json, yaml, paths, null
output: %s

# Order of extra files: path or size
sort: %s

# Show at most this many extra files (0 = all)
limit: %d

# Only list extra files at least this large (e.g. 10M); empty lists all
min_size: ""

# Give up resolving torrent metadata after this long
timeout: %s

# Move deleted files to the trash instead of removing them
trash: false

logging:
  # Log level: debug, info, warn, error
  level: info
  # Empty means $XDG_STATE_HOME/torrent-clean/torrent-clean.log
  path: ""
  rotation:
    max_size: %s
    max_age: %d       # days
    max_backups: %d
    daily: %t
  components:
%s`, DefaultOutput, DefaultSort, DefaultLimit, DefaultTimeout, types.FormatSize(rot.MaxSize),
		rot.MaxAge, rot.MaxBackups, rot.Daily, componentLines())

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", false, fmt.Errorf("failed to write default settings: %w", err)
	}

	return path, true, nil
}

func componentLines() string {
	var b strings.Builder
	for _, name := range []string{"config", "scanner", "torrent", "cleanup"} {
		fmt.Fprintf(&b, "    %s: %s\n", name, DefaultComponents[name])
	}
	return b.String()
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, path[1:]), nil
}
