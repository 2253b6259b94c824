package config

import (
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Initialize writes the default configuration to dir unless one is already
// there, then loads it.
func Initialize(dir string, logger *log.Logger) (*Configuration, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}
	configFs := afero.NewBasePathFs(afero.NewOsFs(), dir)

	for _, name := range []string{ConfigurationName, TOMLConfigurationName} {
		exists, err := afero.Exists(configFs, name)
		if err != nil {
			return nil, err
		}
		if exists {
			logger.Printf("%s already exists, keeping it", name)
			return Load(dir)
		}
	}

	logger.Printf("Writing %s", ConfigurationName)
	if err := afero.WriteFile(configFs, ConfigurationName, defaultConfigData, 0600); err != nil {
		return nil, err
	}
	return Load(dir)
}
