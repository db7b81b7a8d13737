package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the optional YAML config file shape.
type File struct {
	BaseURL    string `yaml:"base_url"`
	DataFolder string `yaml:"data_dir"`
	LogLevel   string `yaml:"log_level"`
}

func LoadFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read config file: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return f, nil
}
