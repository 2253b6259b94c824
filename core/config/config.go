package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

var (
	//go:embed default/config.yaml
	defaultConfigData []byte
)

const (
	ConfigurationName     = "config.yaml"
	TOMLConfigurationName = "config.toml"
	AppLogName            = "events.log"
)

type Configuration struct {
	configFs afero.Fs

	Shell Shell `json:"shell" toml:"shell"`
	Log   Log   `json:"log" toml:"log"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}

// Shell holds the interpreter settings.
type Shell struct {
	WatchdogTimeout Duration `json:"watchdog_timeout" toml:"watchdog_timeout" validate:"gt=0"`
	MaxLineLength   int      `json:"max_line_length" toml:"max_line_length" validate:"gt=0"`
	MaxArgs         int      `json:"max_args" toml:"max_args" validate:"gt=0"`
	ColorPrompt     bool     `json:"color_prompt" toml:"color_prompt"`
	ReapBackground  bool     `json:"reap_background" toml:"reap_background"`
}

type Log struct {
	Events bool `json:"events" toml:"events"`
}

// Duration is a time.Duration written as a string like "10s" in config files.
type Duration time.Duration

// Std converts d to a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var text string
	if err := json.Unmarshal(b, &text); err != nil {
		return fmt.Errorf("duration must be a string such as \"10s\": %w", err)
	}
	return d.UnmarshalText([]byte(text))
}

func (c *Configuration) fs() afero.Fs {
	return c.configFs
}

// OpenAppLog opens the event log in an append only state.
func (c *Configuration) OpenAppLog() (afero.File, error) {
	return c.fs().OpenFile(AppLogName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
}

// ReadAppLog opens the event log for reading.
func (c *Configuration) ReadAppLog() (afero.File, error) {
	return c.fs().OpenFile(AppLogName, os.O_RDONLY, 0600)
}

// Default returns the built-in configuration, used when no configuration
// directory is given. Its files live in memory.
func Default() *Configuration {
	out := defaultConfig()
	out.configFs = afero.NewMemMapFs()
	return out
}

func defaultConfig() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}
