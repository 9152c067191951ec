// Package config loads and validates the engine configuration file.
// Every field has a working default, so running without a file is
// fully supported.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"

	"github.com/ifbridge/ifbridge/internal/log"
	"github.com/ifbridge/ifbridge/internal/platform"
)

type Config struct {
	Engine EngineConfig `toml:"engine"`
	API    APIConfig    `toml:"api"`
	Tools  ToolsConfig  `toml:"tools"`
}

type EngineConfig struct {
	Verbose bool `toml:"verbose"`
}

type APIConfig struct {
	Listen string `toml:"listen" validate:"omitempty,hostname_port"`
}

// ToolsConfig overrides the external tool locations per platform.
// Unset fields fall back to PATH lookup and the conventional
// systemd-networkd directory.
type ToolsConfig struct {
	IP          string `toml:"ip"`
	Nmcli       string `toml:"nmcli"`
	Ifconfig    string `toml:"ifconfig"`
	Powershell  string `toml:"powershell"`
	NetworkdDir string `toml:"networkd_dir"`
}

func Default() *Config {
	return &Config{
		API: APIConfig{Listen: "127.0.0.1:8642"},
	}
}

// LoadConfig reads and parses the configuration file at configPath.
func LoadConfig(configPath string) (*Config, error) {
	configFile := filepath.Clean(configPath)

	if !filepath.IsAbs(configFile) {
		if path, err := filepath.Abs(configFile); err != nil {
			return nil, fmt.Errorf("failed to get absolute path: %v", err)
		} else {
			configFile = path
		}
	}

	content, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %v", err)
	}

	config := Default()
	if err := toml.Unmarshal(content, config); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			log.Errorf(derr.String())
			row, col := derr.Position()
			log.Errorf("Error at line %d, column %d", row, col)
			return nil, fmt.Errorf("failed to parse config file")
		}
		return nil, fmt.Errorf("failed to parse config file: %v", err)
	}

	log.Debugf("Configuration file path: %s", configFile)

	return config, nil
}

// LoadOrDefault loads configPath but falls back to the built-in
// defaults when the file does not exist. The engine is expected to run
// unconfigured on most hosts.
func LoadOrDefault(configPath string) (*Config, error) {
	if _, err := os.Stat(filepath.Clean(configPath)); os.IsNotExist(err) {
		log.Debugf("Configuration file not found at %s, using defaults", configPath)
		return Default(), nil
	}
	return LoadConfig(configPath)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report errors with toml key names, not Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("toml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateConfig checks field constraints and reports all violations
// at once.
func (c *Config) ValidateConfig() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q constraint", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

// PlatformOptions translates the tools section into backend options.
func (c *Config) PlatformOptions() platform.Options {
	return platform.Options{
		IPPath:         c.Tools.IP,
		NmcliPath:      c.Tools.Nmcli,
		IfconfigPath:   c.Tools.Ifconfig,
		PowershellPath: c.Tools.Powershell,
		NetworkdDir:    c.Tools.NetworkdDir,
	}
}
