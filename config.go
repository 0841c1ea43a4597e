package nql

import (
	"io/ioutil"

	"github.com/src-d/go-nql/sql/analyzer"
	errors "gopkg.in/src-d/go-errors.v1"
	yaml "gopkg.in/yaml.v2"
)

// ErrInvalidConfig is returned when a configuration file cannot be used.
var ErrInvalidConfig = errors.NewKind("invalid configuration file %s: %s")

// Config is the configuration of an engine and of its logging.
type Config struct {
	Analyzer analyzer.Config `yaml:"analyzer"`
	Log      LogConfig       `yaml:"log"`
}

// LogConfig holds the logging options.
type LogConfig struct {
	// Level is one of the logrus levels.
	Level string `yaml:"level"`
	// Format is either "text" or "json".
	Format string `yaml:"format"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Analyzer: analyzer.DefaultConfig(),
		Log:      LogConfig{Level: "info", Format: "text"},
	}
}

// ParseConfig reads a YAML configuration. Missing keys keep their default
// values.
func ParseConfig(data []byte) (Config, error) {
	config := DefaultConfig()
	if err := yaml.UnmarshalStrict(data, &config); err != nil {
		return Config{}, err
	}

	if err := config.Analyzer.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

// ReadConfigFile reads the YAML configuration at the given path.
func ReadConfigFile(path string) (Config, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return Config{}, ErrInvalidConfig.Wrap(err, path, err.Error())
	}

	config, err := ParseConfig(data)
	if err != nil {
		return Config{}, ErrInvalidConfig.Wrap(err, path, err.Error())
	}

	return config, nil
}
