package config

import (
	"os"
	"path/filepath"

	"github.com/mrz1836/gatekeeper/internal/constants"
	"github.com/mrz1836/gatekeeper/internal/errors"
)

// GlobalConfigDir returns the path to the global gatekeeper configuration
// directory. This is typically ~/.gatekeeper on Unix systems.
//
// Returns an error if the home directory cannot be determined.
func GlobalConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}
	return filepath.Join(home, constants.StateDirName), nil
}

// ProjectConfigDir returns the relative path to the project configuration
// directory. This is always .gatekeeper relative to the project root.
func ProjectConfigDir() string {
	return constants.StateDirName
}

// GlobalConfigPath returns the full path to the global configuration file.
// This is typically ~/.gatekeeper/config.yaml on Unix systems.
//
// Returns an error if the home directory cannot be determined.
func GlobalConfigPath() (string, error) {
	dir, err := GlobalConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, constants.ConfigFileName), nil
}

// ProjectConfigPath returns the relative path to the project configuration
// file. This is always .gatekeeper/config.yaml relative to the project root.
func ProjectConfigPath() string {
	return filepath.Join(ProjectConfigDir(), constants.ConfigFileName)
}

// StateDir returns the project-local state directory, where the governor
// persists performance records. projectPath may be empty for the current
// working directory.
func StateDir(projectPath string) string {
	return filepath.Join(projectPath, constants.StateDirName)
}

// RegistryPath resolves the hook definition file location for a project.
// A relative configured path is anchored at the project root.
func RegistryPath(cfg *Config, projectPath string) string {
	path := cfg.Registry.Path
	if path == "" {
		path = filepath.Join(constants.StateDirName, constants.RegistryFileName)
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(projectPath, path)
}
