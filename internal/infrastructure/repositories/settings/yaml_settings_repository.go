package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/rios0rios0/clubcms/internal/domain/entities"
	"github.com/rios0rios0/clubcms/internal/domain/repositories"
)

const (
	settingsDirMode  = 0o755
	settingsFileMode = 0o600
	defaultFileName  = "clubcms.yaml"
)

// YAMLSettingsRepository stores the settings in a YAML file.
type YAMLSettingsRepository struct {
	path string
}

// NewYAMLSettingsRepository opens the settings file at path. With an empty path
// the first existing file from FindSettingsFile is used, or DefaultSettingsPath
// when there is none yet.
func NewYAMLSettingsRepository(path string) repositories.SettingsRepository {
	if path == "" {
		found, err := FindSettingsFile()
		if err != nil {
			found = DefaultSettingsPath()
		}
		path = found
	}
	return &YAMLSettingsRepository{path: path}
}

func (r *YAMLSettingsRepository) Location() string { return r.path }

// Load reads the file; a missing file yields the default settings.
func (r *YAMLSettingsRepository) Load() (*entities.Settings, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		logger.Debugf("No settings at %q, using defaults", r.path)
		return entities.NewDefaultSettings(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file %q: %w", r.path, err)
	}

	settings := entities.NewDefaultSettings()
	if unmarshalErr := yaml.Unmarshal(data, settings); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse settings file %q: %w", r.path, unmarshalErr)
	}
	settings.ApplyDefaults()

	if validateErr := settings.Validate(); validateErr != nil {
		return nil, fmt.Errorf("settings file %q: %w", r.path, validateErr)
	}
	return settings, nil
}

// Save writes the settings, creating parent directories as needed.
func (r *YAMLSettingsRepository) Save(settings *entities.Settings) error {
	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if dir := filepath.Dir(r.path); dir != "" {
		if mkdirErr := os.MkdirAll(dir, settingsDirMode); mkdirErr != nil {
			return fmt.Errorf("failed to create %q: %w", dir, mkdirErr)
		}
	}
	if writeErr := os.WriteFile(r.path, data, settingsFileMode); writeErr != nil {
		return fmt.Errorf("failed to write settings file %q: %w", r.path, writeErr)
	}
	return nil
}

// FindSettingsFile searches for a settings file in standard locations.
// Returns the path to the first file found or an error if none is found.
func FindSettingsFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	locations := []string{
		".",
		".config",
	}
	if homeDir != "" {
		locations = append(
			locations,
			homeDir,
			filepath.Join(homeDir, ".config"),
		)
	}

	patterns := []string{
		".clubcms.yaml",
		".clubcms.yml",
		"clubcms.yaml",
		"clubcms.yml",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("settings file not found in default locations")
}

// DefaultSettingsPath is where new settings are written: $HOME/.config/clubcms.yaml,
// or the working directory when there is no home.
func DefaultSettingsPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil || homeDir == "" {
		return defaultFileName
	}
	return filepath.Join(homeDir, ".config", defaultFileName)
}
