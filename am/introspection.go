package am

import (
	"os"
	"sort"
	"strings"
)

// ConfigSource represents where a configuration value came from
type ConfigSource string

const (
	SourceDefault     ConfigSource = "default"
	SourceSystem      ConfigSource = "system"      // /etc/qsfdecode/am.toml
	SourceUser        ConfigSource = "user"        // ~/.qsfdecode/am.toml
	SourceProject     ConfigSource = "project"     // am.toml found walking up from the working directory
	SourceEnvironment ConfigSource = "environment" // QSF_* and legacy Q_* env vars
)

// secretKeys are masked in introspection output
var secretKeys = map[string]bool{
	"qualtrics.api_token": true,
}

// legacyEnv maps keys to the environment names older exporter scripts used
var legacyEnv = map[string]string{
	"qualtrics.api_token":   EnvAPIToken,
	"qualtrics.data_center": EnvDataCenter,
}

// SettingInfo contains metadata about a configuration setting
type SettingInfo struct {
	Key        string       `json:"key"`
	Value      interface{}  `json:"value"`
	Source     ConfigSource `json:"source"`
	SourcePath string       `json:"source_path,omitempty"` // File path or env var name
}

// SourceInfo tracks where a configuration value originated
type SourceInfo struct {
	Source ConfigSource
	Path   string
}

// ConfigIntrospection lists every effective setting with its origin
type ConfigIntrospection struct {
	Settings []SettingInfo `json:"settings"`
}

// GetConfigIntrospection returns the effective settings and where each came
// from, using the sources tracked while loading
func GetConfigIntrospection() (*ConfigIntrospection, error) {
	if _, err := Load(); err != nil {
		return nil, err
	}
	intro := &ConfigIntrospection{}
	flattenSettingsWithSources(GetViper().AllSettings(), "", intro, ConfigSources)
	return intro, nil
}

// flattenSettingsWithSources flattens settings in key order and assigns
// sources from sourceMap. Environment variables win over files.
func flattenSettingsWithSources(settings map[string]interface{}, prefix string, intro *ConfigIntrospection, sourceMap map[string]SourceInfo) {
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := settings[key]
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		if nested, ok := value.(map[string]interface{}); ok {
			flattenSettingsWithSources(nested, fullKey, intro, sourceMap)
			continue
		}

		info := SourceInfo{Source: SourceDefault, Path: "built-in default"}
		if si, ok := sourceMap[fullKey]; ok {
			info = si
		}
		if env := envSource(fullKey); env != "" {
			info = SourceInfo{Source: SourceEnvironment, Path: env}
		}

		if secretKeys[fullKey] {
			if s, ok := value.(string); ok {
				value = MaskSecret(s)
			}
		}

		intro.Settings = append(intro.Settings, SettingInfo{
			Key:        fullKey,
			Value:      value,
			Source:     info.Source,
			SourcePath: info.Path,
		})
	}
}

// envSource returns the environment variable overriding key, if any
func envSource(key string) string {
	name := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
	if os.Getenv(name) != "" {
		return name
	}
	if legacy, ok := legacyEnv[key]; ok && os.Getenv(legacy) != "" {
		return legacy
	}
	return ""
}
