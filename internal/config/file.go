package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const envConfigFile = "TURBIT_CONFIG"

var projectConfigFiles = []string{"turbit.toml", ".turbit.toml", "turbit.yaml", "turbit.yml"}

// findConfigFile returns TURBIT_CONFIG when set, otherwise the first project
// config file present in the current directory.
func findConfigFile() string {
	if p := os.Getenv(envConfigFile); p != "" {
		return p
	}
	for _, name := range projectConfigFiles {
		if info, err := os.Stat(name); err == nil && !info.IsDir() {
			return name
		}
	}
	return ""
}

// loadConfigFile decodes a TOML or YAML file into cfg, chosen by extension.
// Keys absent from the file keep their current values.
func loadConfigFile(cfg *Config, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		// #nosec G304 -- the path comes from the operator's own environment or working directory.
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to unmarshal YAML: %w", err)
		}
		var keys map[string]yaml.Node
		if err := yaml.Unmarshal(data, &keys); err != nil {
			return fmt.Errorf("failed to unmarshal YAML: %w", err)
		}
		if _, ok := keys["power"]; ok {
			cfg.PowerSet = true
		}
		return nil

	case ".toml", "":
		md, err := toml.DecodeFile(path, cfg)
		if err != nil {
			return err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return fmt.Errorf("unknown keys: %v", undecoded)
		}
		if md.IsDefined("power") {
			cfg.PowerSet = true
		}
		return nil

	default:
		return fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
}
