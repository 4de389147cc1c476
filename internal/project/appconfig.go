package project

import (
	"encoding/json"
	"os"
	"path/filepath"

	"oss.terrastruct.com/xdefer"

	"github.com/piwi3910/SailQuote/internal/model"
)

// DefaultConfigDir returns the default directory for application data.
// On all platforms this is ~/.sailquote/
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".sailquote")
}

// DefaultConfigPath returns the default path for the application config file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

// SaveAppConfig persists an AppConfig to the given path as JSON.
// It creates any missing parent directories automatically.
func SaveAppConfig(path string, config model.AppConfig) (err error) {
	defer xdefer.Errorf(&err, "failed to save config to %s", path)
	return writeJSON(path, config)
}

// LoadAppConfig reads an AppConfig from the given path. If the file does not
// exist, it returns DefaultAppConfig with no error. Fields missing from the
// file keep their default values.
func LoadAppConfig(path string) (_ model.AppConfig, err error) {
	defer xdefer.Errorf(&err, "failed to load config from %s", path)

	config := model.DefaultAppConfig()
	found, err := readJSON(path, &config)
	if err != nil {
		return model.AppConfig{}, err
	}
	if !found {
		return model.DefaultAppConfig(), nil
	}
	if config.RecentDesigns == nil {
		config.RecentDesigns = []string{}
	}
	return config, nil
}

// writeJSON marshals v with indentation, creating parent directories.
func writeJSON(path string, v interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// readJSON unmarshals the file at path into v. A missing file is reported
// as found == false with no error.
func readJSON(path string, v interface{}) (found bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return true, err
	}
	return true, nil
}
