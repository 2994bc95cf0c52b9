package backend

import (
	"fmt"

	"agenda/internal/config"
)

// FromAppConfig converts the application config to store config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	storeType := StoreType(appConfig.DataBackend)
	if !storeType.IsValid() {
		return Config{}, fmt.Errorf("invalid store type in config: %s", appConfig.DataBackend)
	}

	return Config{
		Type:         storeType,
		SQLiteDBPath: appConfig.SQLiteDBPath,
		DataFilePath: appConfig.DataFilePath,
	}, nil
}

// Validate validates the store configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid store type: %s", c.Type)
	}

	switch c.Type {
	case SQLiteStore:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLite database path is required for sqlite store")
		}
	case FileStore:
		if c.DataFilePath == "" {
			return fmt.Errorf("data file path is required for file store")
		}
	}

	return nil
}
