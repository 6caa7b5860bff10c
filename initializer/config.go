package initializer

// Startup configuration, read from an optional purua.yml next to the
// invocation. Everything has a default; a missing file is not an error,
// a malformed one is.

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/udzura/purua-old/object"
	"github.com/udzura/purua-old/text"
)

const DefaultConfigFile = "purua.yml"

const defaultRegistrySize = 256

type Config struct {
	// RegistrySize caps the value stack. Scripts that recurse past it
	// fail with a registry overflow rather than growing without bound.
	RegistrySize int `yaml:"registry_size"`
	// Prompt is what the repl shows at the start of each line.
	Prompt string `yaml:"prompt"`
}

func DefaultConfig() *Config {
	return &Config{
		RegistrySize: defaultRegistrySize,
		Prompt:       text.PROMPT,
	}
}

// LoadConfig reads the config file at path, filling in defaults for
// anything it doesn't set. A missing file yields the defaults.
func LoadConfig(path string) (*Config, *object.Error) {
	config := DefaultConfig()
	contents, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, object.CreateErr("init/config/read", path)
	}
	if err := yaml.Unmarshal(contents, config); err != nil {
		return nil, object.CreateErr("init/config/parse", path, err.Error())
	}
	if config.RegistrySize <= 0 {
		config.RegistrySize = defaultRegistrySize
	}
	if config.Prompt == "" {
		config.Prompt = text.PROMPT
	}
	return config, nil
}
