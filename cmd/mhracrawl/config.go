package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fwojciec/mhracrawl"
)

// loadConfigFile overlays a YAML config file onto cfg. Fields absent
// from the file keep their current values.
func loadConfigFile(path string, cfg *mhracrawl.Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %q: %w", path, err)
	}
	return nil
}
