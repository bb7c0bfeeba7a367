package config

import (
	"fmt"
	"time"

	"github.com/golang/glog"
	"github.com/robfig/config"
)

// ConfigFilePath is the default path to the config file
const ConfigFilePath string = "/etc/astral/api.conf"

// APISection is the [api] section of the config file
const APISection string = "api"

// Config file keys
const (
	ListenPort = "listen_port"

	CacheMaxItems     = "cache_max_items"
	CacheMaxSizeBytes = "cache_max_size_bytes"
	CoalesceMisses    = "coalesce_misses"

	RendererCommand = "renderer_command"
	RendererTimeout = "renderer_timeout"
	ChartLanguage   = "chart_language"
	ThemeCSSPath    = "theme_css_path"

	TempDir           = "temp_dir"
	TempMaxAgeMinutes = "temp_max_age_minutes"

	StatsSchedule = "stats_schedule"
)

var configRequiredStrings = []string{
	RendererCommand,
}

var configRequiredInt64s = []string{
	ListenPort,
}

var configDefaultStrings = map[string]string{
	RendererTimeout: "60s",
	ChartLanguage:   "ES",
	ThemeCSSPath:    "./themes/astral.css",
	TempDir:         "./temp/output",
	StatsSchedule:   "0 */5 * * * *",
}

var configDefaultInt64s = map[string]int64{
	CacheMaxItems:     128,
	CacheMaxSizeBytes: 64 * 1024 * 1024,
	TempMaxAgeMinutes: 60,
}

var configDefaultBools = map[string]bool{
	CoalesceMisses: true,
}

// ConfigStrings contains the string values for the given config keys
var ConfigStrings = map[string]string{}

// ConfigInt64s contains the int64 values for the given config keys
var ConfigInt64s = map[string]int64{}

// ConfigBools contains the bool values for the given config keys
var ConfigBools = map[string]bool{}

// Load reads the [api] section of the given config file into ConfigStrings,
// ConfigInt64s and ConfigBools. Required keys must be present, everything else
// falls back to a default.
func Load(path string) error {
	c, err := config.ReadDefault(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	strs := map[string]string{}
	ints := map[string]int64{}
	bools := map[string]bool{}

	for _, key := range configRequiredStrings {
		s, err := c.String(APISection, key)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		strs[key] = s
	}

	for _, key := range configRequiredInt64s {
		ii, err := c.Int(APISection, key)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		ints[key] = int64(ii)
	}

	for key, def := range configDefaultStrings {
		strs[key] = def
		if c.HasOption(APISection, key) {
			s, err := c.String(APISection, key)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			strs[key] = s
		}
	}

	for key, def := range configDefaultInt64s {
		ints[key] = def
		if c.HasOption(APISection, key) {
			ii, err := c.Int(APISection, key)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			ints[key] = int64(ii)
		}
	}

	for key, def := range configDefaultBools {
		bools[key] = def
		if c.HasOption(APISection, key) {
			b, err := c.Bool(APISection, key)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			bools[key] = b
		}
	}

	if _, err := time.ParseDuration(strs[RendererTimeout]); err != nil {
		return fmt.Errorf("%s: %w", RendererTimeout, err)
	}

	for _, key := range []string{CacheMaxItems, CacheMaxSizeBytes} {
		if ints[key] <= 0 {
			return fmt.Errorf("%s must be positive, got %d", key, ints[key])
		}
	}

	ConfigStrings = strs
	ConfigInt64s = ints
	ConfigBools = bools

	if glog.V(2) {
		glog.Infof("Loaded config from %s", path)
	}

	return nil
}
