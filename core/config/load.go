package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

// Load loads the configuration from the directory. config.yaml is preferred
// over config.toml when both exist. Settings missing from the file keep their
// default values.
func Load(path string) (*Configuration, error) {
	// If given the path to a config file, move back up a level.
	switch filepath.Base(path) {
	case ConfigurationName, TOMLConfigurationName:
		path = filepath.Dir(path)
	}
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	configFs := afero.NewBasePathFs(afero.NewOsFs(), path)
	out := defaultConfig()
	out.configFs = configFs

	if err := decode(configFs, out); err != nil {
		return nil, err
	}
	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %q: %w", path, err)
	}
	return out, nil
}

func decode(configFs afero.Fs, out *Configuration) error {
	contents, err := afero.ReadFile(configFs, ConfigurationName)
	switch {
	case err == nil:
		if err := yaml.UnmarshalStrict(contents, out); err != nil {
			return fmt.Errorf("%s: %w", ConfigurationName, err)
		}
		return nil
	case !errors.Is(err, fs.ErrNotExist):
		return err
	}

	contents, err = afero.ReadFile(configFs, TOMLConfigurationName)
	if err != nil {
		return err
	}
	meta, err := toml.Decode(string(contents), out)
	if err != nil {
		return fmt.Errorf("%s: %w", TOMLConfigurationName, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("%s: unknown field %q", TOMLConfigurationName, undecoded[0].String())
	}
	return nil
}
