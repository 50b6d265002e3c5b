package config

import "os"

// DefaultConfigPath is the config file location relative to the working directory
const DefaultConfigPath = ".filestat/config.yaml"

// ConfigPathEnv overrides DefaultConfigPath when set
const ConfigPathEnv = "FILESTAT_CONFIG"

// ResolvePath returns the config file to load
// Priority order:
//  1. explicit path (the --config flag, if set)
//  2. FILESTAT_CONFIG environment variable
//  3. DefaultConfigPath
func ResolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv(ConfigPathEnv); env != "" {
		return env
	}
	return DefaultConfigPath
}
