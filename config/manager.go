package config

import (
	"fmt"
)

var managerSingleton *manager

type manager struct {
	Settings ConfigData
	BaseDefs ConfigData

	configFilePath string
}

// ConfigData holds every tunable of the tool. Field names follow the ini key
// names of the configuration file; defaults are baked into Defaults().
type ConfigData struct {
	MANIFEST_PATH       string `mapstructure:"manifest_path"`
	DEFAULT_LOCALE_PATH string `mapstructure:"default_locale_path"`
	PRESET_FILE         string `mapstructure:"preset_file"`

	// on-error: keep the edited manifest on success, restore it on failure.
	// always: restore the pre-edit manifest on every exit.
	RESTORE_POLICY string `mapstructure:"restore_policy"`
	// targeted: locale-gen <code>, with one system-wide retry on failure.
	// all: locale-gen without arguments.
	REGEN_STRATEGY string `mapstructure:"regen_strategy"`

	// auto / always / never
	SWAP_MODE    string `mapstructure:"swap_mode"`
	SWAP_PATH    string `mapstructure:"swap_path"`
	SWAP_SIZE_MB int    `mapstructure:"swap_size_mb"`

	DEFAULT_LOG_PATH  string `mapstructure:"log_path"`
	DEFAULT_DEBUG     bool   `mapstructure:"debug"`
	SYSTEM_WARNINGS   bool   `mapstructure:"system_warnings"`
	VERBOSE_TO_STDERR bool   `mapstructure:"verbose_to_stderr"`

	NOCOLOR     bool   `mapstructure:"nocolor"`
	FORCE_COLOR bool   `mapstructure:"force_color"`
	COLOR_OK    string `mapstructure:"color_ok"`
	COLOR_ERROR string `mapstructure:"color_error"`
	COLOR_WARN  string `mapstructure:"color_warn"`
	COLOR_DEBUG string `mapstructure:"color_debug"`

	COLOR_VERBOSE string `mapstructure:"color_verbose"`
	COLOR_CHANGED string `mapstructure:"color_changed"`
}

func Defaults() ConfigData {
	return ConfigData{
		MANIFEST_PATH:       "/etc/locale.gen",
		DEFAULT_LOCALE_PATH: "/etc/default/locale",
		RESTORE_POLICY:      "on-error",
		REGEN_STRATEGY:      "targeted",
		SWAP_MODE:           "auto",
		SWAP_PATH:           "/tmp/deblang-swapfile",
		SWAP_SIZE_MB:        1024,
		SYSTEM_WARNINGS:     true,
		COLOR_OK:            "green",
		COLOR_ERROR:         "red",
		COLOR_WARN:          "bright purple",
		COLOR_DEBUG:         "dark gray",
		COLOR_VERBOSE:       "blue",
		COLOR_CHANGED:       "yellow",
	}
}

func DestroyDefaultManager() {
	managerSingleton = nil
}

func Manager() *manager {
	if managerSingleton != nil {
		return managerSingleton
	}

	defs := Defaults()
	managerSingleton = &manager{
		BaseDefs: defs,
		Settings: defs,
	}
	return managerSingleton
}

// TryLoadConfigFile determines the location of a config file and tries to load
// config variables from it. Pass an empty string as configFilePath to try to
// find the config file in standard locations.
func (m *manager) TryLoadConfigFile(configFilePath string) error {
	if configFilePath == "" {
		configFilePath = findIniConfigFile()
	}

	if configFilePath == "" {
		// No config file is not an error.
		return nil
	}

	if err := parseConfigFile(configFilePath, &m.Settings); err != nil {
		m.Settings = m.BaseDefs
		return fmt.Errorf("config file at %s could not be parsed: %w", configFilePath, err)
	}

	if err := m.Settings.validate(); err != nil {
		m.Settings = m.BaseDefs
		return fmt.Errorf("config file at %s is invalid: %w", configFilePath, err)
	}

	m.configFilePath = configFilePath
	return nil
}

func (d *ConfigData) validate() error {
	switch d.RESTORE_POLICY {
	case "on-error", "always":
	default:
		return fmt.Errorf("unsupported restore_policy %q (expected on-error or always)", d.RESTORE_POLICY)
	}
	switch d.REGEN_STRATEGY {
	case "targeted", "all":
	default:
		return fmt.Errorf("unsupported regen_strategy %q (expected targeted or all)", d.REGEN_STRATEGY)
	}
	switch d.SWAP_MODE {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("unsupported swap_mode %q (expected auto, always or never)", d.SWAP_MODE)
	}
	if d.SWAP_SIZE_MB <= 0 {
		return fmt.Errorf("swap_size_mb must be positive, got %d", d.SWAP_SIZE_MB)
	}
	return nil
}
