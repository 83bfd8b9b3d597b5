package main

import (
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matsen/profiles/internal/config"
	"github.com/matsen/profiles/internal/desktop"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Get or set configuration values",
	Long: `Get or set configuration values.

Usage:
  prof config                      # Show resolved config
  prof config data-dir             # Get specific value
  prof config data-dir ~/profiles  # Set value in the config file
  prof config minimum-age 21

Keys:
  data-dir     Directory holding the database and photographs
  db-file      Database file name (relative to data-dir) or absolute path
  image-dir    Managed photograph directory name under data-dir
  minimum-age  Minimum applicant age in years
  log-level    debug, info, warn, error
  log-format   console, json
  image-viewer system, preview, feh, eog, gwenview (used by preview --open)

Shown values include environment overrides; set values go to the config file.`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	// No args: show all config
	if len(args) == 0 {
		if humanOutput {
			outputHuman("config-file: %s\n", config.GlobalConfigPath())
			outputHuman("data-dir:    %s\n", settings.DataDir)
			outputHuman("db-path:     %s\n", settings.DBPath)
			outputHuman("image-dir:   %s\n", settings.ImageDir)
			outputHuman("minimum-age: %d\n", settings.MinimumAge)
			outputHuman("log-level:   %s\n", settings.LogLevel)
			outputHuman("log-format:  %s\n", settings.LogFormat)
			outputHuman("viewer:      %s\n", settings.ImageViewer)
			outputHuman("location:    %s\n", formatCoordinate(settings.DefaultLocation))
		} else {
			outputJSON(settings)
		}
		return nil
	}

	key := normalizeKey(args[0])

	// One arg: get specific value
	if len(args) == 1 {
		value, ok := settingValue(key)
		if !ok {
			exitWithError(ExitError, "unknown configuration key: %s", args[0])
		}
		if humanOutput {
			outputHuman("%s\n", value)
		} else {
			outputJSON(map[string]string{strings.ReplaceAll(key, "-", "_"): value})
		}
		return nil
	}

	// Two args: set value
	value := args[1]
	cfg, err := config.LoadGlobalConfig()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	if err := setConfigValue(cfg, key, value); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	if err := config.SaveGlobalConfig(cfg); err != nil {
		exitWithError(ExitError, "saving config: %v", err)
	}

	if humanOutput {
		outputHuman("Updated %s to %s\n", args[0], value)
	} else {
		outputJSON(UpdateResponse{
			Status: "updated",
			Key:    key,
			Value:  value,
		})
	}
	return nil
}

// settingValue returns the resolved value for key.
func settingValue(key string) (string, bool) {
	switch key {
	case "data-dir":
		return settings.DataDir, true
	case "db-file":
		return settings.DBFile, true
	case "db-path":
		return settings.DBPath, true
	case "image-dir":
		return settings.ImageDir, true
	case "minimum-age":
		return strconv.Itoa(settings.MinimumAge), true
	case "log-level":
		return settings.LogLevel, true
	case "log-format":
		return settings.LogFormat, true
	case "image-viewer":
		return settings.ImageViewer, true
	default:
		return "", false
	}
}

// setConfigValue validates value and stores it in cfg under key.
func setConfigValue(cfg *config.GlobalConfig, key, value string) error {
	switch key {
	case "data-dir":
		cfg.DataDir = config.ExpandPath(value)
	case "db-file":
		cfg.DBFile = value
	case "image-dir":
		if value == "" || filepath.IsAbs(value) || strings.Contains(value, "..") {
			return fmt.Errorf("image-dir must be a plain directory name, got %q", value)
		}
		cfg.ImageDir = value
	case "minimum-age":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("minimum-age must be a non-negative whole number, got %q", value)
		}
		cfg.MinimumAge = &n
	case "log-level":
		if err := config.ValidateLogLevel(value); err != nil {
			return err
		}
		cfg.LogLevel = value
	case "log-format":
		if err := config.ValidateLogFormat(value); err != nil {
			return err
		}
		cfg.LogFormat = value
	case "image-viewer":
		if !slices.Contains(desktop.Viewers, value) {
			return fmt.Errorf("invalid image-viewer: %s (valid: %v)", value, desktop.Viewers)
		}
		cfg.ImageViewer = value
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}

// normalizeKey converts key formats (data-dir, data_dir, DATA-DIR) to consistent format
func normalizeKey(key string) string {
	key = strings.ToLower(key)
	key = strings.ReplaceAll(key, "_", "-")
	return key
}
