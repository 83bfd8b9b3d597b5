package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/matsen/profiles/internal/profile"
)

// Defaults applied when neither the file nor the environment sets a value.
const (
	AppDir            = "prof"
	DefaultDBFile     = "profiles.db"
	DefaultImageDir   = "Pictures"
	DefaultMinimumAge = 18
	DefaultLogLevel   = "warn"
	DefaultLogFormat  = "console"
)

// Environment variables that override the config file.
const (
	EnvDataDir   = "PROF_DATA_DIR"
	EnvMinAge    = "PROF_MIN_AGE"
	EnvLogLevel  = "PROF_LOG_LEVEL"
	EnvLogFormat = "PROF_LOG_FORMAT"
)

// ValidLogFormats lists the supported log_format values.
var ValidLogFormats = []string{"console", "json"}

// ValidLogLevels lists the supported log_level values.
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// Settings is the fully resolved configuration.
type Settings struct {
	DataDir         string             `json:"data_dir"`
	DBFile          string             `json:"db_file"`
	DBPath          string             `json:"db_path"`
	ImageDir        string             `json:"image_dir"`
	MinimumAge      int                `json:"minimum_age"`
	LogLevel        string             `json:"log_level"`
	LogFormat       string             `json:"log_format"`
	ImageViewer     string             `json:"image_viewer,omitempty"`
	DefaultLocation profile.Coordinate `json:"default_location"`
}

// LoadEnvFile loads KEY=value pairs from path into the environment without
// overriding variables that are already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// DefaultDataDir returns $XDG_DATA_HOME/prof, or ~/.local/share/prof.
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return AppDir
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, AppDir)
}

// Resolve merges defaults, the global config file and environment overrides.
func Resolve() (*Settings, error) {
	cfg, err := LoadGlobalConfig()
	if err != nil {
		return nil, err
	}
	return resolve(cfg, os.Getenv)
}

func resolve(cfg *GlobalConfig, getenv func(string) string) (*Settings, error) {
	s := &Settings{
		DataDir:    DefaultDataDir(),
		DBFile:     DefaultDBFile,
		ImageDir:   DefaultImageDir,
		MinimumAge: DefaultMinimumAge,
		LogLevel:   DefaultLogLevel,
		LogFormat:  DefaultLogFormat,
	}

	if cfg.DataDir != "" {
		s.DataDir = cfg.DataDir
	}
	if cfg.DBFile != "" {
		s.DBFile = cfg.DBFile
	}
	if cfg.ImageDir != "" {
		s.ImageDir = cfg.ImageDir
	}
	if cfg.MinimumAge != nil {
		s.MinimumAge = *cfg.MinimumAge
	}
	if cfg.LogLevel != "" {
		s.LogLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" {
		s.LogFormat = cfg.LogFormat
	}
	s.ImageViewer = cfg.ImageViewer
	if loc := cfg.DefaultLocation; loc != nil {
		s.DefaultLocation = profile.Coordinate{Lat: loc.Lat, Long: loc.Long}.Clone()
	}

	if v := getenv(EnvDataDir); v != "" {
		s.DataDir = ExpandPath(v)
	}
	if v := getenv(EnvMinAge); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("%s: %q is not a whole number", EnvMinAge, v)
		}
		s.MinimumAge = n
	}
	if v := getenv(EnvLogLevel); v != "" {
		s.LogLevel = v
	}
	if v := getenv(EnvLogFormat); v != "" {
		s.LogFormat = v
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	s.SetDataDir(s.DataDir)
	return s, nil
}

// SetDataDir points the settings at dir. A relative db_file follows it; an
// absolute one stays put.
func (s *Settings) SetDataDir(dir string) {
	s.DataDir = dir
	if filepath.IsAbs(s.DBFile) {
		s.DBPath = s.DBFile
	} else {
		s.DBPath = filepath.Join(dir, s.DBFile)
	}
}

// Validate checks the resolved values.
func (s *Settings) Validate() error {
	if s.MinimumAge < 0 {
		return fmt.Errorf("minimum_age must not be negative, got %d", s.MinimumAge)
	}
	if err := ValidateLogLevel(s.LogLevel); err != nil {
		return err
	}
	if err := ValidateLogFormat(s.LogFormat); err != nil {
		return err
	}
	if s.ImageDir == "" || filepath.IsAbs(s.ImageDir) || strings.Contains(s.ImageDir, "..") {
		return fmt.Errorf("image_dir must be a plain directory name, got %q", s.ImageDir)
	}
	return nil
}

// ValidateLogLevel checks that the level is one of ValidLogLevels.
func ValidateLogLevel(level string) error {
	for _, valid := range ValidLogLevels {
		if level == valid {
			return nil
		}
	}
	return fmt.Errorf("invalid log_level: %s (valid: %v)", level, ValidLogLevels)
}

// ValidateLogFormat checks that the format is one of ValidLogFormats.
func ValidateLogFormat(format string) error {
	for _, valid := range ValidLogFormats {
		if format == valid {
			return nil
		}
	}
	return fmt.Errorf("invalid log_format: %s (valid: %v)", format, ValidLogFormats)
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path // Return original if we can't get home directory
	}

	return filepath.Join(home, path[1:])
}
